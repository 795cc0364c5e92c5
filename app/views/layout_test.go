package views_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodexplorer/app/views"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
)

func TestLayout(t *testing.T) {
	both := views.Panels{Order: true, Payment: true}
	order := views.Panels{Order: true}
	payment := views.Panels{Payment: true}

	cases := []struct {
		name     string
		wide     bool
		accepted bool
		current  views.Panels
		want     views.Panels
	}{
		{"wide shows both", true, false, order, both},
		{"wide accepted hides order", true, true, both, payment},
		{"narrow collapses both to order", false, false, both, order},
		{"narrow keeps payment", false, false, payment, payment},
		{"narrow defaults to order", false, false, views.Panels{}, order},
		{"narrow accepted on payment", false, true, payment, payment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, views.Layout(tc.wide, tc.accepted, tc.current))
		})
	}
}

func TestControllerCrossingBreakpoint(t *testing.T) {
	c := views.NewController(1050, 800, nil)
	assert.Equal(t, views.Panels{Order: true}, c.Panels())

	c.OpenPayment()
	assert.Equal(t, views.Panels{Payment: true}, c.Panels())

	assert.Equal(t, views.Panels{Order: true, Payment: true}, c.Resize(1200))
	assert.True(t, c.Wide())

	c.OpenPayment()
	assert.Equal(t, views.Panels{Order: true, Payment: true}, c.Panels(), "navigation is a no-op when wide")

	assert.Equal(t, views.Panels{Order: true}, c.Resize(900))
}

func TestControllerFollowsCheckout(t *testing.T) {
	bus := event.NewBus()
	c := views.NewController(0, 600, bus)

	bus.Fire(event.CheckoutPhaseChanged, event.Transition{From: "reviewing_order", To: "selecting_payment"})
	assert.Equal(t, views.Panels{Payment: true}, c.Panels())

	bus.Fire(event.CheckoutPhaseChanged, event.Transition{From: "selecting_payment", To: "reviewing_order"})
	assert.Equal(t, views.Panels{Order: true}, c.Panels())

	bus.Fire(event.CheckoutAccepted, nil)
	assert.Equal(t, views.Panels{Payment: true}, c.Panels())
	assert.Equal(t, views.Panels{Payment: true}, c.Resize(1400))
}
