package http

import (
	"errors"
	"fmt"
)

// APIError is a response the server rejected. Message carries the server's
// explanation when it sent one ({"message": "..."}).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http: status %d", e.Status)
}

// ServerMessage returns the server-reported message wrapped anywhere in err.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
