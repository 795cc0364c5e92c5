package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/services"
	"github.com/shashiranjanraj/foodexplorer/pkg/confirm"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
	"github.com/shashiranjanraj/foodexplorer/pkg/testkit"
)

var orderTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))

func (e *env) checkout(c confirm.Confirmer, opts ...services.CheckoutOption) *services.CheckoutService {
	opts = append([]services.CheckoutOption{
		services.WithClock(func() time.Time { return orderTime }),
		services.WithRedirectDelay(time.Millisecond),
	}, opts...)
	s := services.NewCheckoutService(e.client, e.session, e.orders, c, notification.New(e.rec), e.bus, opts...)
	return s
}

func pizzaStub() testkit.Stub {
	return testkit.Stub{
		Method: "GET", Path: "/payment",
		Body: `[{"id":"d1","name":"Pizza","price":25.00,"image":"pizza.png"}]`,
	}
}

// readyToPay opens the checkout on the pizza cart with a complete card.
func readyToPay(t *testing.T, e *env, c confirm.Confirmer, opts ...services.CheckoutOption) *services.CheckoutService {
	t.Helper()
	e.signedIn(t, "u1")
	e.cart(t, models.Order{UserID: "u1", Status: models.StatusOpen, Dishes: []models.OrderDish{{DishID: "d1", Amount: 2}}})

	co := e.checkout(c, opts...)
	require.NoError(t, co.Open(context.Background()))
	require.NoError(t, co.OpenPayment())
	require.NoError(t, co.SelectPayment(services.MethodCreditCard))
	co.SetCardNumber("4111111111111111")
	co.SetExpiry("0425")
	co.SetCVC("123")
	require.True(t, co.State().FormComplete)
	return co
}

func TestOpenPizzaScenario(t *testing.T) {
	e := newEnv(t, pizzaStub())
	e.signedIn(t, "u1")
	e.cart(t, models.Order{UserID: "u1", Status: models.StatusOpen, Dishes: []models.OrderDish{{DishID: "d1", Amount: 2}}})

	co := e.checkout(confirm.Always(true))
	require.NoError(t, co.Open(context.Background()))

	st := co.State()
	assert.False(t, st.Loading)
	require.Len(t, st.Items, 1)
	item := st.Items[0]
	assert.Equal(t, models.ID("d1"), item.ID)
	assert.Equal(t, 2, item.Amount)
	assert.Equal(t, "Pizza", item.Name)
	assert.Equal(t, "pizza.png", item.Image)
	assert.Equal(t, "50.00", item.Price.StringFixed(2))
	assert.True(t, st.Total.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, "dishIds=d1", e.mt.CallsTo("GET", "/payment")[0].Query)
}

func TestOpenEmptyCartMakesNoRequest(t *testing.T) {
	e := newEnv(t)
	e.signedIn(t, "u1")
	e.cart(t, models.NewOrder("u1"))

	co := e.checkout(confirm.Always(true))
	require.NoError(t, co.Open(context.Background()))

	assert.Empty(t, e.mt.Calls())
	st := co.State()
	assert.False(t, st.Loading)
	assert.True(t, st.Empty())
	assert.True(t, st.Total.IsZero())
	assert.ErrorIs(t, co.OpenPayment(), services.ErrNoItems)
}

func TestOpenFetchFailure(t *testing.T) {
	e := newEnv(t, testkit.Stub{Method: "GET", Path: "/payment", Err: errors.New("timeout")})
	e.signedIn(t, "u1")
	e.cart(t, models.NewOrder("u1").With("d1", 1))

	require.Error(t, e.checkout(confirm.Always(true)).Open(context.Background()))
	assert.Equal(t, "Ocorreu um erro ao buscar o pedido. Por favor, tente novamente.", e.lastNotice(t).Message)
}

func TestOpenNeedsSession(t *testing.T) {
	e := newEnv(t)
	assert.ErrorIs(t, e.checkout(confirm.Always(true)).Open(context.Background()), services.ErrNotSignedIn)
}

func TestReconcile(t *testing.T) {
	order := models.Order{UserID: "u1", Dishes: []models.OrderDish{
		{DishID: "b", Amount: 1},
		{DishID: "gone", Amount: 3},
		{DishID: "a", Amount: 3},
		{DishID: "zero", Amount: 0},
	}}
	dishes := []models.Dish{
		{ID: "a", Name: "Salada", Price: decimal.RequireFromString("12.50")},
		{ID: "zero", Name: "Suco", Price: decimal.RequireFromString("8")},
		{ID: "b", Name: "Torta", Price: decimal.RequireFromString("20.10")},
	}

	items, total := services.Reconcile(order, dishes)

	require.Len(t, items, 2)
	assert.Equal(t, models.ID("b"), items[0].ID, "cart order, not catalog order")
	assert.Equal(t, models.ID("a"), items[1].ID)
	assert.Equal(t, "37.50", items[1].Price.StringFixed(2))
	assert.Equal(t, "57.60", total.StringFixed(2))

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price)
	}
	assert.True(t, sum.Equal(total))

	again, total2 := services.Reconcile(order, dishes)
	assert.Equal(t, items, again)
	assert.True(t, total.Equal(total2))
}

func TestCardValidationGatesFinalize(t *testing.T) {
	e := newEnv(t, pizzaStub())
	co := readyToPay(t, e, confirm.Always(true))

	co.SetCardNumber("411111111111")
	assert.False(t, co.State().FormComplete)
	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrFormIncomplete)

	co.SetCardNumber("4111111111111111")
	co.SetExpiry("04")
	assert.False(t, co.State().FormComplete)

	co.SetExpiry("04/25")
	co.SetCVC("12")
	assert.False(t, co.State().FormComplete)

	co.SetCVC("123")
	st := co.State()
	assert.True(t, st.FormComplete)
	assert.Equal(t, "4111 1111 1111 1111", st.Card.Number)
	assert.Equal(t, "04/25", st.Card.Expiry)

	co.SetCVC("12")
	assert.False(t, co.State().FormComplete, "a field turning invalid closes the gate again")
	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrFormIncomplete)

	co.SetCVC("123")
	assert.True(t, co.State().FormComplete)
	assert.Empty(t, e.mt.CallsTo("POST", "/orders"))
}

func TestFinalizeAfterLastItemRemoved(t *testing.T) {
	e := newEnv(t, pizzaStub(), testkit.Stub{Method: "POST", Path: "/orders", Status: 201})
	co := readyToPay(t, e, confirm.Always(true))

	require.NoError(t, co.RemoveItem(context.Background(), "d1"))
	require.Empty(t, co.State().Items)

	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrNoItems)
	assert.Empty(t, e.mt.CallsTo("POST", "/orders"))
	assert.Equal(t, services.PhaseSelectingPayment, co.State().Phase)
}

func TestFinalizeSuccess(t *testing.T) {
	e := newEnv(t, pizzaStub(), testkit.Stub{Method: "POST", Path: "/orders", Status: 201})

	var mu sync.Mutex
	var transitions []event.Transition
	e.bus.Listen(event.CheckoutPhaseChanged, func(p interface{}) {
		mu.Lock()
		transitions = append(transitions, p.(event.Transition))
		mu.Unlock()
	})
	redirected := make(chan struct{}, 1)
	ask := confirm.Always(true)

	co := readyToPay(t, e, ask, services.OnAccepted(func() { redirected <- struct{}{} }))
	require.NoError(t, co.Finalize(context.Background()))

	call := e.mt.CallsTo("POST", "/orders")[0]
	testkit.AssertJSONBody(t, map[string]any{"order": map[string]any{
		"user_id":   "u1",
		"status":    "Pendente",
		"dishes":    []any{map[string]any{"dish_id": "d1", "amount": 2}},
		"orders_at": "2024-05-01T12:30:00Z",
	}}, call.Body)

	st := co.State()
	assert.Equal(t, services.PhaseAccepted, st.Phase)
	assert.True(t, st.Accepted)
	assert.False(t, st.Processing)
	assert.False(t, st.ViewingOrder)
	assert.True(t, st.Total.IsZero())
	assert.Empty(t, st.Items)

	assert.Equal(t, models.NewOrder("u1"), e.cached(t))
	order, _ := e.session.Order()
	assert.Equal(t, models.NewOrder("u1"), order)

	require.Len(t, ask.Asked(), 1)
	assert.Equal(t, "createOrder", ask.Asked()[0].ID)

	select {
	case <-redirected:
	case <-time.After(time.Second):
		t.Fatal("redirect never happened")
	}
	<-co.Redirected()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.Transition{
		{From: "reviewing_order", To: "selecting_payment"},
		{From: "selecting_payment", To: "processing_payment"},
		{From: "processing_payment", To: "accepted"},
	}, transitions)
}

func TestFinalizeFailureKeepsCart(t *testing.T) {
	e := newEnv(t, pizzaStub(), testkit.Stub{Method: "POST", Path: "/orders", Status: 500, Body: map[string]string{"message": "boom"}})
	co := readyToPay(t, e, confirm.Always(true))
	before := e.cached(t)

	require.Error(t, co.Finalize(context.Background()))

	st := co.State()
	assert.Equal(t, services.PhaseSelectingPayment, st.Phase)
	assert.False(t, st.Processing)
	assert.False(t, st.Accepted)
	assert.Equal(t, "50.00", st.Total.StringFixed(2))
	assert.Equal(t, before, e.cached(t))
	assert.Equal(t, "Ocorreu um erro ao criar o pedido. Por favor, tente novamente.", e.lastNotice(t).Message)
}

func TestFinalizeCancelled(t *testing.T) {
	e := newEnv(t, pizzaStub())
	co := readyToPay(t, e, confirm.Always(false))

	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrCancelled)
	assert.Empty(t, e.mt.CallsTo("POST", "/orders"))
	assert.Equal(t, services.PhaseSelectingPayment, co.State().Phase)
}

func TestFinalizePixUnsupported(t *testing.T) {
	e := newEnv(t, pizzaStub())
	ask := confirm.Always(true)
	co := readyToPay(t, e, ask)
	require.NoError(t, co.SelectPayment(services.MethodPix))

	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrPixUnsupported)
	assert.Empty(t, ask.Asked())
}

func TestFinalizeInFlightGuard(t *testing.T) {
	e := newEnv(t, pizzaStub())
	shown := make(chan *confirm.Deferred, 1)
	dialog := confirm.NewDialog(func(_ confirm.Prompt, d *confirm.Deferred) { shown <- d })
	co := readyToPay(t, e, dialog)

	first := make(chan error, 1)
	go func() { first <- co.Finalize(context.Background()) }()

	d := <-shown
	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrSubmissionInFlight)

	d.Dismiss()
	assert.ErrorIs(t, <-first, services.ErrCancelled)
	assert.Empty(t, e.mt.CallsTo("POST", "/orders"))
}

func TestPaymentPanelNavigation(t *testing.T) {
	e := newEnv(t, pizzaStub())
	e.signedIn(t, "u1")
	e.cart(t, models.NewOrder("u1").With("d1", 1))
	co := e.checkout(confirm.Always(true))
	require.NoError(t, co.Open(context.Background()))

	st := co.State()
	assert.Equal(t, services.PhaseReviewingOrder, st.Phase)
	assert.Equal(t, services.MethodPix, st.Method)
	assert.ErrorIs(t, co.Finalize(context.Background()), services.ErrWrongPhase)

	require.NoError(t, co.OpenPayment())
	st = co.State()
	assert.False(t, st.ViewingOrder)
	assert.True(t, st.ViewingPayment)

	require.NoError(t, co.OpenOrder())
	assert.Equal(t, services.PhaseReviewingOrder, co.State().Phase)
	assert.ErrorIs(t, co.SelectPayment("boleto"), services.ErrUnknownMethod)
}

func TestRemoveItem(t *testing.T) {
	e := newEnv(t, testkit.Stub{
		Method: "GET", Path: "/payment",
		Body: `[{"id":"d1","name":"Pizza","price":25,"image":"p.png"},{"id":"d2","name":"Suco","price":8,"image":"s.png"}]`,
	})
	e.signedIn(t, "u1")
	e.cart(t, models.NewOrder("u1").With("d1", 2).With("d2", 1))

	ask := confirm.Always(true)
	co := e.checkout(ask)
	require.NoError(t, co.Open(context.Background()))
	require.NoError(t, co.RemoveItem(context.Background(), "d1"))

	cached := e.cached(t)
	assert.Equal(t, []models.ID{"d2"}, cached.DishIDs())
	assert.Equal(t, models.ID("u1"), cached.UserID)
	assert.Equal(t, models.StatusOpen, cached.Status)
	st := co.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "8.00", st.Total.StringFixed(2))
	assert.Len(t, e.mt.CallsTo("GET", "/payment"), 1, "no re-fetch")
	assert.Equal(t, "deleteItem", ask.Asked()[0].ID)
	assert.Equal(t, "Item removido.", e.lastNotice(t).Message)
}

func TestRemoveItemCancelled(t *testing.T) {
	e := newEnv(t)
	e.signedIn(t, "u1")
	e.cart(t, models.NewOrder("u1").With("d1", 2))

	co := e.checkout(confirm.Always(false))
	assert.ErrorIs(t, co.RemoveItem(context.Background(), "d1"), services.ErrCancelled)
	assert.Equal(t, 2, e.cached(t).Amount("d1"))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", services.FormatCardNumber("4111-1111-1111-1111-99"))
	assert.Equal(t, "4111 11", services.FormatCardNumber("411111"))
	assert.Equal(t, "04/25", services.FormatExpiry("0425"))
	assert.Equal(t, "04/25", services.FormatExpiry("04/2599"))
	assert.Equal(t, "0", services.FormatExpiry("0"))
	assert.Equal(t, "123", services.FormatCVC("1a2b3"))
}
