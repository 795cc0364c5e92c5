// Package event provides a small synchronous event dispatcher. The checkout
// flow announces phase changes on a Bus and the view controller listens.
package event

import (
	"sync"
)

// Well-known event names.
const (
	CheckoutPhaseChanged = "checkout.phase_changed"
	CheckoutAccepted     = "checkout.accepted"
	OrderCleared         = "order.cleared"
	SessionSignedIn      = "session.signed_in"
	SessionSignedOut     = "session.signed_out"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus holds listeners by event name. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners, in
// registration order. A nil bus drops the event.
func (b *Bus) Fire(event string, payload interface{}) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

// Transition is the payload of CheckoutPhaseChanged.
type Transition struct {
	From string
	To   string
}
