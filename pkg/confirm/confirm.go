// Package confirm implements the blocking yes/no prompt that guards
// destructive or order-finalizing actions.
//
// A prompt resolves exactly once to a boolean. Confirmation proceeds;
// cancellation, dismissal and a cancelled context all count as "no":
//
//	ok, err := confirmer.Confirm(ctx, confirm.Prompt{
//	    ID:      "deleteItem",
//	    Message: "Deseja realmente remover este item do pedido?",
//	    Confirm: "Remover",
//	    Cancel:  "Cancelar",
//	})
//	if err != nil || !ok {
//	    return
//	}
package confirm

import (
	"context"
	"sync"
)

// Prompt describes one question. Prompts sharing an ID while pending are
// shown once and resolve together.
type Prompt struct {
	ID      string
	Message string
	Confirm string
	Cancel  string
}

// Confirmer asks the user to decide.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ─── Deferred ─────────────────────────────────────────────────────────────────

// Deferred is a single-resolution boolean. The first Resolve wins; later
// calls are ignored.
type Deferred struct {
	once  sync.Once
	done  chan struct{}
	value bool
}

// NewDeferred returns an unresolved Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolve settles the value. It reports whether this call did the settling.
func (d *Deferred) Resolve(v bool) bool {
	settled := false
	d.once.Do(func() {
		d.value = v
		close(d.done)
		settled = true
	})
	return settled
}

// Dismiss settles the value to false.
func (d *Deferred) Dismiss() bool { return d.Resolve(false) }

// Done is closed once the value is settled.
func (d *Deferred) Done() <-chan struct{} { return d.done }

// Wait blocks until the value is settled or ctx is done. A cancelled ctx
// returns false and ctx.Err().
func (d *Deferred) Wait(ctx context.Context) (bool, error) {
	select {
	case <-d.done:
		return d.value, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// ─── Presenter-backed confirmer ───────────────────────────────────────────────

// Presenter shows p and arranges for d to be resolved by the user's action.
// It must not block.
type Presenter func(p Prompt, d *Deferred)

// Dialog turns a Presenter into a Confirmer and deduplicates prompts by ID.
type Dialog struct {
	present Presenter

	mu      sync.Mutex
	pending map[string]*Deferred
}

// NewDialog wraps present.
func NewDialog(present Presenter) *Dialog {
	return &Dialog{present: present, pending: map[string]*Deferred{}}
}

func (c *Dialog) Confirm(ctx context.Context, p Prompt) (bool, error) {
	c.mu.Lock()
	d, shown := c.pending[p.ID]
	if !shown || p.ID == "" {
		d = NewDeferred()
		if p.ID != "" {
			c.pending[p.ID] = d
		}
	}
	c.mu.Unlock()

	if !shown || p.ID == "" {
		c.present(p, d)
	}

	ok, err := d.Wait(ctx)

	c.mu.Lock()
	if c.pending[p.ID] == d {
		delete(c.pending, p.ID)
	}
	c.mu.Unlock()

	return ok, err
}

// ─── Static ───────────────────────────────────────────────────────────────────

// Static answers every prompt with the same value and records the prompts.
// Used by --yes and in tests.
type Static struct {
	Answer bool

	mu    sync.Mutex
	asked []Prompt
}

// Always returns a Static confirmer answering v.
func Always(v bool) *Static { return &Static{Answer: v} }

func (s *Static) Confirm(_ context.Context, p Prompt) (bool, error) {
	s.mu.Lock()
	s.asked = append(s.asked, p)
	s.mu.Unlock()
	return s.Answer, nil
}

// Asked returns the prompts seen so far.
func (s *Static) Asked() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.asked...)
}
