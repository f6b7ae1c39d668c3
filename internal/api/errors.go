package api

import (
	"errors"
	"fmt"
)

// The whole app funnels upstream failures into this small taxonomy; page
// handlers turn them into flash messages and never retry.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUpstream           = errors.New("something went wrong")
	ErrNetwork            = errors.New("network error, try again")
)

// StatusError carries the raw upstream status for callers that need it; it
// unwraps to one of the sentinel errors above.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == 404:
		return ErrNotFound
	case e.Status == 401 || e.Status == 403:
		return ErrUnauthorized
	default:
		return ErrUpstream
	}
}

// UserMessage maps any error from this package to the short human-readable
// string rendered in a toast.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrUnauthorized):
		return "session expired, please log in again"
	case errors.Is(err, ErrNetwork):
		return "network error, try again"
	default:
		return "something went wrong"
	}
}
