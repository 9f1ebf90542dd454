package provider

import (
	"context"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
)

// Adapter is the uniform contract over payment backends.
type Adapter interface {
	Name() model.PaymentProvider
	// CreateIntent requests a payment intent for a base-currency base-unit
	// amount; the adapter converts to its native precision itself.
	CreateIntent(ctx context.Context, amountBaseUnit int64, currency string) (*model.Intent, error)
	// CancelIntent cancels the intent at the backend. Canceling an intent the
	// backend already finalized is tolerated.
	CancelIntent(ctx context.Context, intentID string) error
}

// StatusPoller is an optional adapter capability for backends without
// webhook delivery. Probe with a type assertion.
type StatusPoller interface {
	PollStatus(ctx context.Context, intentID string) (model.PaymentStatus, error)
}

// Registry holds the adapters selected at configuration time.
type Registry map[model.PaymentProvider]Adapter

// Get returns the adapter for the provider or ErrUnknownProvider.
func (r Registry) Get(p model.PaymentProvider) (Adapter, error) {
	adapter, ok := r[p]
	if !ok {
		return nil, domainErrors.ErrUnknownProvider
	}
	return adapter, nil
}
