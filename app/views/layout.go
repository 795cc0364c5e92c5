// Package views decides which checkout panels are on screen.
package views

import (
	"sync"

	"github.com/shashiranjanraj/foodexplorer/pkg/event"
)

// DefaultBreakpoint is the width at which both panels fit side by side.
const DefaultBreakpoint = 1050

// Panels are the visible checkout panels.
type Panels struct {
	Order   bool
	Payment bool
}

// Layout returns the panels to show. Wide screens show both unless the order
// was accepted, which hides the order. Narrow screens show exactly one:
// payment only when it was the single panel already showing, order otherwise.
func Layout(wide, accepted bool, current Panels) Panels {
	if wide {
		if accepted {
			return Panels{Payment: true}
		}
		return Panels{Order: true, Payment: true}
	}
	if !current.Order && current.Payment {
		return Panels{Payment: true}
	}
	return Panels{Order: true}
}

// Controller tracks the terminal width and the user's panel navigation.
type Controller struct {
	breakpoint int

	mu       sync.Mutex
	width    int
	accepted bool
	panels   Panels
}

// NewController starts at width with the order panel in front. It follows
// checkout navigation and acceptance on bus.
func NewController(breakpoint, width int, bus *event.Bus) *Controller {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	c := &Controller{breakpoint: breakpoint, width: width, panels: Panels{Order: true}}
	c.panels = Layout(c.wide(), false, c.panels)

	if bus != nil {
		bus.Listen(event.CheckoutPhaseChanged, func(p interface{}) {
			t, ok := p.(event.Transition)
			if !ok {
				return
			}
			switch {
			case t.From == "reviewing_order" && t.To == "selecting_payment":
				c.OpenPayment()
			case t.To == "reviewing_order":
				c.OpenOrder()
			}
		})
		bus.Listen(event.CheckoutAccepted, func(interface{}) { c.Accept() })
	}
	return c
}

func (c *Controller) wide() bool { return c.width >= c.breakpoint }

// Panels returns what is on screen.
func (c *Controller) Panels() Panels {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panels
}

// Wide reports whether both panels fit.
func (c *Controller) Wide() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wide()
}

// Resize applies a new width.
func (c *Controller) Resize(width int) Panels {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.panels = Layout(c.wide(), c.accepted, c.panels)
	return c.panels
}

// OpenPayment brings the payment panel to the front on narrow screens.
func (c *Controller) OpenPayment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.wide() {
		c.panels = Panels{Payment: true}
	}
}

// OpenOrder brings the order panel to the front on narrow screens.
func (c *Controller) OpenOrder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.wide() {
		c.panels = Panels{Order: true}
	}
}

// Accept hides the order panel for good.
func (c *Controller) Accept() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accepted = true
	c.panels.Order = false
	c.panels.Payment = true
}
