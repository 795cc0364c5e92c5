package models

// Order statuses as the API spells them.
const (
	StatusOpen    = "aberto"
	StatusPending = "Pendente"
)

// Order is the cart cached on the device and, once submitted, the body of
// POST /orders.
type Order struct {
	UserID   ID          `json:"user_id"`
	Status   string      `json:"status"`
	Dishes   []OrderDish `json:"dishes"`
	OrdersAt string      `json:"orders_at,omitempty"`
}

// OrderDish is one cart entry. DishID is unique within an order.
type OrderDish struct {
	DishID ID  `json:"dish_id"`
	Amount int `json:"amount"`
}

// NewOrder returns an empty open order for userID.
func NewOrder(userID ID) Order {
	return Order{UserID: userID, Status: StatusOpen, Dishes: []OrderDish{}}
}

// DishIDs returns the dish ids in cart order.
func (o Order) DishIDs() []ID {
	ids := make([]ID, 0, len(o.Dishes))
	for _, d := range o.Dishes {
		ids = append(ids, d.DishID)
	}
	return ids
}

// Amount returns the quantity of dishID in the order, 0 when absent.
func (o Order) Amount(dishID ID) int {
	for _, d := range o.Dishes {
		if d.DishID == dishID {
			return d.Amount
		}
	}
	return 0
}

// Without returns a copy of the order with dishID removed.
func (o Order) Without(dishID ID) Order {
	out := o
	out.Dishes = make([]OrderDish, 0, len(o.Dishes))
	for _, d := range o.Dishes {
		if d.DishID != dishID {
			out.Dishes = append(out.Dishes, d)
		}
	}
	return out
}

// With returns a copy of the order with amount more of dishID. A new dish is
// appended so the cart keeps insertion order.
func (o Order) With(dishID ID, amount int) Order {
	out := o
	out.Dishes = make([]OrderDish, 0, len(o.Dishes)+1)
	found := false
	for _, d := range o.Dishes {
		if d.DishID == dishID {
			d.Amount += amount
			found = true
		}
		out.Dishes = append(out.Dishes, d)
	}
	if !found {
		out.Dishes = append(out.Dishes, OrderDish{DishID: dishID, Amount: amount})
	}
	return out
}
