package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/pkg/kv"
)

// ErrInvalidAmount is returned by AddDish for amounts below one.
var ErrInvalidAmount = errors.New("repositories: amount must be at least 1")

// OrderRepository is the Order Cache: the single cart kept on the device.
type OrderRepository struct {
	store kv.Store
}

func NewOrderRepository(store kv.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Find returns the cached order. ok is false when nothing is cached.
func (r *OrderRepository) Find(ctx context.Context) (order models.Order, ok bool, err error) {
	raw, err := r.store.Get(ctx, KeyOrder)
	if errors.Is(err, kv.ErrNotFound) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return models.Order{}, false, fmt.Errorf("repositories: decode %s: %w", KeyOrder, err)
	}
	if order.Dishes == nil {
		order.Dishes = []models.OrderDish{}
	}
	return order, true, nil
}

// Save replaces the cached order.
func (r *OrderRepository) Save(ctx context.Context, order models.Order) error {
	if order.Dishes == nil {
		order.Dishes = []models.OrderDish{}
	}
	b, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KeyOrder, string(b))
}

// Reset writes an empty open order for userID and returns it.
func (r *OrderRepository) Reset(ctx context.Context, userID models.ID) (models.Order, error) {
	order := models.NewOrder(userID)
	return order, r.Save(ctx, order)
}

// ForUser returns the cached order when it belongs to userID, otherwise a
// fresh open order that is also written to the cache.
func (r *OrderRepository) ForUser(ctx context.Context, userID models.ID) (models.Order, error) {
	order, ok, err := r.Find(ctx)
	if err != nil {
		return models.Order{}, err
	}
	if ok && order.UserID == userID {
		return order, nil
	}
	return r.Reset(ctx, userID)
}

// AddDish adds amount of dishID to userID's cart.
func (r *OrderRepository) AddDish(ctx context.Context, userID, dishID models.ID, amount int) (models.Order, error) {
	if amount < 1 {
		return models.Order{}, ErrInvalidAmount
	}
	order, err := r.ForUser(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	order = order.With(dishID, amount)
	return order, r.Save(ctx, order)
}

// RemoveDish drops dishID from the cached order. The result is saved as an
// open order owned by userID.
func (r *OrderRepository) RemoveDish(ctx context.Context, userID, dishID models.ID) (models.Order, error) {
	order, _, err := r.Find(ctx)
	if err != nil {
		return models.Order{}, err
	}
	order = order.Without(dishID)
	order.UserID = userID
	order.Status = models.StatusOpen
	order.OrdersAt = ""
	return order, r.Save(ctx, order)
}
