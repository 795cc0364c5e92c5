package services

import "errors"

var (
	ErrNoItems            = errors.New("services: order has no items")
	ErrFormIncomplete     = errors.New("services: payment form is incomplete")
	ErrPixUnsupported     = errors.New("services: pix payments cannot be submitted")
	ErrSubmissionInFlight = errors.New("services: order submission already in progress")
	ErrCancelled          = errors.New("services: cancelled by user")
	ErrWrongPhase         = errors.New("services: not allowed in the current checkout phase")
	ErrUnknownMethod      = errors.New("services: unknown payment method")
)

// ValidationError is a form field rejected before any request was sent.
// Message is what the user sees.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
