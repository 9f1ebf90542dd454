package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveCart       = errors.New("no active cart session")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnknownEventType   = errors.New("unknown webhook event type")
	ErrUnknownProvider    = errors.New("unknown payment provider")
	ErrNotCancelable      = errors.New("no payment in cancelable state")
	ErrPaymentMissing     = errors.New("payment record missing for order")
)

// ProviderError wraps a failure reported by an external payment backend.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds ProviderError for the given backend.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
