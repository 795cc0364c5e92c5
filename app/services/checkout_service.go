package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/repositories"
	"github.com/shashiranjanraj/foodexplorer/pkg/confirm"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/metrics"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
	"github.com/shashiranjanraj/foodexplorer/pkg/validate"
)

// Phase is a checkout step.
type Phase string

const (
	PhaseReviewingOrder    Phase = "reviewing_order"
	PhaseSelectingPayment  Phase = "selecting_payment"
	PhaseProcessingPayment Phase = "processing_payment"
	PhaseAccepted          Phase = "accepted"
)

// PaymentMethod is how the user pays.
type PaymentMethod string

const (
	MethodPix        PaymentMethod = "pix"
	MethodCreditCard PaymentMethod = "creditcard"
)

const (
	msgFetchFailed  = "Ocorreu um erro ao buscar o pedido. Por favor, tente novamente."
	msgCreateFailed = "Ocorreu um erro ao criar o pedido. Por favor, tente novamente."
	msgItemRemoved  = "Item removido."
)

var (
	promptDeleteItem = confirm.Prompt{
		ID:      "deleteItem",
		Message: "Deseja realmente remover este item do pedido?",
		Confirm: "Remover",
		Cancel:  "Cancelar",
	}
	promptCreateOrder = confirm.Prompt{
		ID:      "createOrder",
		Message: "Deseja realmente fechar o pedido e realizar o pagamento?",
		Confirm: "Sim",
		Cancel:  "Cancelar",
	}
)

// CheckoutState is a snapshot of the checkout screen. ViewingOrder and
// ViewingPayment are the user's navigation choice; views.Layout decides what
// is actually on screen for a given width.
type CheckoutState struct {
	Phase        Phase
	Method       PaymentMethod
	Card         CardForm
	FormComplete bool

	ViewingOrder   bool
	ViewingPayment bool
	Processing     bool
	Accepted       bool
	Loading        bool

	Items []models.LineItem
	Total decimal.Decimal
}

// Empty reports the "no items" state.
func (s CheckoutState) Empty() bool { return !s.Loading && len(s.Items) == 0 }

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithRedirectDelay sets how long the accepted screen stays before OnAccepted
// runs.
func WithRedirectDelay(d time.Duration) CheckoutOption {
	return func(s *CheckoutService) { s.redirectDelay = d }
}

// OnAccepted registers the navigation to the order history.
func OnAccepted(fn func()) CheckoutOption {
	return func(s *CheckoutService) { s.onAccepted = fn }
}

// WithClock replaces time.Now for the order timestamp.
func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// CheckoutService drives one visit to the checkout screen.
type CheckoutService struct {
	api     *api.Client
	session *SessionService
	orders  *repositories.OrderRepository
	confirm confirm.Confirmer
	notify  *notification.Notifier
	bus     *event.Bus

	redirectDelay time.Duration
	onAccepted    func()
	now           func() time.Time

	mu         sync.Mutex
	state      CheckoutState
	catalog    []models.Dish
	inFlight   bool
	timer      *time.Timer
	redirected chan struct{}
}

func NewCheckoutService(
	client *api.Client,
	session *SessionService,
	orders *repositories.OrderRepository,
	confirmer confirm.Confirmer,
	notify *notification.Notifier,
	bus *event.Bus,
	opts ...CheckoutOption,
) *CheckoutService {
	s := &CheckoutService{
		api:           client,
		session:       session,
		orders:        orders,
		confirm:       confirmer,
		notify:        notify,
		bus:           bus,
		redirectDelay: 3 * time.Second,
		now:           time.Now,
		redirected:    make(chan struct{}),
		state: CheckoutState{
			Phase:        PhaseReviewingOrder,
			Method:       MethodPix,
			ViewingOrder: true,
			Loading:      true,
			Total:        decimal.Zero,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *CheckoutService) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = append([]models.LineItem(nil), s.state.Items...)
	return st
}

// Redirected is closed once OnAccepted has run.
func (s *CheckoutService) Redirected() <-chan struct{} { return s.redirected }

// Close stops a pending redirect.
func (s *CheckoutService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

// ─── Order review ─────────────────────────────────────────────────────────────

// Open loads the cached order and prices it with one catalog request. An
// empty cart makes no request.
func (s *CheckoutService) Open(ctx context.Context) error {
	log := logger.WithCtx(ctx)

	if !s.session.Identity().Valid() {
		return ErrNotSignedIn
	}

	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	order, _, err := s.orders.Find(ctx)
	if err != nil {
		s.setLoaded(nil, decimal.Zero)
		log.Error("checkout: read order", "error", err)
		s.notify.Error(msgFetchFailed)
		return err
	}

	ids := order.DishIDs()
	if len(ids) == 0 {
		s.setLoaded(nil, decimal.Zero)
		return nil
	}

	dishes, err := s.api.PaymentDishes(ctx, s.session.Auth(), ids)
	if err != nil {
		s.setLoaded(nil, decimal.Zero)
		log.Error("checkout: fetch dishes", "error", err)
		s.notify.Error(msgFetchFailed)
		return err
	}

	items, total := Reconcile(order, dishes)

	s.mu.Lock()
	s.catalog = dishes
	s.mu.Unlock()
	s.setLoaded(items, total)

	log.Debug("checkout: order loaded", "items", len(items), "total", total.StringFixed(2))
	return nil
}

func (s *CheckoutService) setLoaded(items []models.LineItem, total decimal.Decimal) {
	s.mu.Lock()
	s.state.Items = items
	s.state.Total = total
	s.state.Loading = false
	s.mu.Unlock()
}

// Reconcile joins the cached quantities with catalog records. Items follow
// cart order; dishes missing from the catalog or with amount ≤ 0 are dropped.
// Calling it again with the same inputs gives the same result.
func Reconcile(order models.Order, dishes []models.Dish) ([]models.LineItem, decimal.Decimal) {
	byID := make(map[models.ID]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	amounts := make(map[models.ID]int, len(order.Dishes))
	for _, d := range order.Dishes {
		amounts[d.DishID] = d.Amount
	}

	total := decimal.Zero
	items := make([]models.LineItem, 0, len(order.Dishes))
	seen := make(map[models.ID]bool, len(order.Dishes))
	for _, od := range order.Dishes {
		if seen[od.DishID] {
			continue
		}
		seen[od.DishID] = true

		dish, ok := byID[od.DishID]
		amount := amounts[od.DishID]
		if !ok || amount <= 0 {
			continue
		}
		price := dish.Price.Mul(decimal.NewFromInt(int64(amount)))
		total = total.Add(price)
		items = append(items, models.LineItem{
			ID:     dish.ID,
			Image:  dish.Image,
			Amount: amount,
			Name:   dish.Name,
			Price:  price,
		})
	}
	return items, total
}

// RemoveItem asks for confirmation, drops dishID from the cache and reprices
// against the catalog already fetched.
func (s *CheckoutService) RemoveItem(ctx context.Context, dishID models.ID) error {
	id := s.session.Identity()
	if !id.Valid() {
		return ErrNotSignedIn
	}

	ok, err := s.confirm.Confirm(ctx, promptDeleteItem)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	order, err := s.orders.RemoveDish(ctx, id.User.ID, dishID)
	if err != nil {
		logger.WithCtx(ctx).Error("checkout: remove item", "dish_id", dishID, "error", err)
		return err
	}
	s.session.SyncOrder(order)
	s.notify.Info(msgItemRemoved)

	s.mu.Lock()
	catalog := s.catalog
	s.mu.Unlock()
	items, total := Reconcile(order, catalog)
	s.setLoaded(items, total)
	return nil
}

// ─── Payment ──────────────────────────────────────────────────────────────────

// OpenPayment moves from the order review to payment selection.
func (s *CheckoutService) OpenPayment() error {
	s.mu.Lock()
	if len(s.state.Items) == 0 {
		s.mu.Unlock()
		return ErrNoItems
	}
	if s.state.Phase != PhaseReviewingOrder && s.state.Phase != PhaseSelectingPayment {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	t := s.moveLocked(PhaseSelectingPayment)
	s.state.ViewingOrder = false
	s.state.ViewingPayment = true
	s.mu.Unlock()

	s.fire(t)
	return nil
}

// OpenOrder goes back to the order review.
func (s *CheckoutService) OpenOrder() error {
	s.mu.Lock()
	if s.state.Phase != PhaseReviewingOrder && s.state.Phase != PhaseSelectingPayment {
		s.mu.Unlock()
		return ErrWrongPhase
	}
	t := s.moveLocked(PhaseReviewingOrder)
	s.state.ViewingOrder = true
	s.state.ViewingPayment = false
	s.mu.Unlock()

	s.fire(t)
	return nil
}

// SelectPayment switches the payment method. PIX shows a QR code placeholder
// and has no submission.
func (s *CheckoutService) SelectPayment(m PaymentMethod) error {
	if m != MethodPix && m != MethodCreditCard {
		return ErrUnknownMethod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Processing || s.state.Accepted {
		return ErrWrongPhase
	}
	s.state.Method = m
	return nil
}

// SetCardNumber stores the formatted card number.
func (s *CheckoutService) SetCardNumber(v string) {
	s.updateCard(func(c *CardForm) { c.Number = FormatCardNumber(v) })
}

// SetExpiry stores the formatted expiry date.
func (s *CheckoutService) SetExpiry(v string) {
	s.updateCard(func(c *CardForm) { c.Expiry = FormatExpiry(v) })
}

// SetCVC stores the formatted security code.
func (s *CheckoutService) SetCVC(v string) {
	s.updateCard(func(c *CardForm) { c.CVC = FormatCVC(v) })
}

func (s *CheckoutService) updateCard(fn func(*CardForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state.Card)
	s.state.FormComplete = validate.Valid(s.state.Card)
}

// Finalize confirms and submits the cached order paid by credit card. Only
// one submission runs at a time. On success the cache is emptied right away
// and OnAccepted runs after the redirect delay; on failure the user stays on
// payment selection with the cache untouched.
func (s *CheckoutService) Finalize(ctx context.Context) error {
	log := logger.WithCtx(ctx)

	id := s.session.Identity()
	if !id.Valid() {
		return ErrNotSignedIn
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	ok, err := s.confirm.Confirm(ctx, promptCreateOrder)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	order, _, err := s.orders.Find(ctx)
	if err != nil {
		return err
	}
	order.Status = models.StatusPending
	order.OrdersAt = s.now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	s.state.Processing = true
	t := s.moveLocked(PhaseProcessingPayment)
	s.mu.Unlock()
	s.fire(t)

	if err := s.api.CreateOrder(ctx, s.session.Auth(), order); err != nil {
		s.mu.Lock()
		s.state.Processing = false
		t := s.moveLocked(PhaseSelectingPayment)
		s.mu.Unlock()
		s.fire(t)

		metrics.RecordOrder("failed")
		log.Error("checkout: create order", "error", err)
		s.notify.Error(msgCreateFailed)
		return err
	}

	fresh, err := s.orders.Reset(ctx, id.User.ID)
	if err != nil {
		log.Error("checkout: reset order cache", "error", err)
	}
	s.session.SyncOrder(fresh)

	s.mu.Lock()
	s.state.Processing = false
	s.state.Accepted = true
	s.state.ViewingOrder = false
	s.state.ViewingPayment = true
	s.state.Items = nil
	s.state.Total = decimal.Zero
	s.catalog = nil
	t = s.moveLocked(PhaseAccepted)
	s.timer = time.AfterFunc(s.redirectDelay, s.redirect)
	s.mu.Unlock()

	metrics.RecordOrder("accepted")
	log.Info("checkout: order accepted", "user_id", id.User.ID, "dishes", len(order.Dishes))
	s.fire(t)
	s.bus.Fire(event.OrderCleared, fresh)
	s.bus.Fire(event.CheckoutAccepted, order)
	return nil
}

func (s *CheckoutService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inFlight:
		return ErrSubmissionInFlight
	case s.state.Phase != PhaseSelectingPayment:
		return ErrWrongPhase
	case len(s.state.Items) == 0:
		return ErrNoItems
	case s.state.Method == MethodPix:
		return ErrPixUnsupported
	case !s.state.FormComplete:
		return ErrFormIncomplete
	}
	s.inFlight = true
	return nil
}

func (s *CheckoutService) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *CheckoutService) redirect() {
	if s.onAccepted != nil {
		s.onAccepted()
	}
	close(s.redirected)
}

// moveLocked changes phase and returns the transition to announce once the
// lock is released.
func (s *CheckoutService) moveLocked(to Phase) *event.Transition {
	from := s.state.Phase
	if from == to {
		return nil
	}
	s.state.Phase = to
	metrics.RecordTransition(string(from), string(to))
	return &event.Transition{From: string(from), To: string(to)}
}

func (s *CheckoutService) fire(t *event.Transition) {
	if t != nil {
		s.bus.Fire(event.CheckoutPhaseChanged, *t)
	}
}
