package errors

import (
	"errors"
	"io"
	"testing"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrAlreadyExists,
		ErrNotFound,
		ErrInvalidCredentials,
		ErrNoActiveCart,
		ErrEmptyCart,
		ErrUnknownEventType,
		ErrUnknownProvider,
		ErrNotCancelable,
		ErrPaymentMissing,
	}
	seen := make(map[string]bool)
	for _, err := range sentinels {
		if seen[err.Error()] {
			t.Fatalf("duplicate sentinel message %q", err.Error())
		}
		seen[err.Error()] = true
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	err := NewProviderError("cardgate", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected wrapped error to surface through errors.Is")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError type")
	}
	if provErr.Provider != "cardgate" {
		t.Fatalf("unexpected provider %s", provErr.Provider)
	}
}
