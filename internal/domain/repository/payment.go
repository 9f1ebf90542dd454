package repository

import (
	"context"
	"time"

	"github.com/polkart/storefront/internal/domain/model"
)

// PaymentRepository persists the provider-intent to order mapping and applies
// status transitions. All transitions are conditional on the payment not being
// in a terminal state; concurrent callers racing on the same payment see
// exactly one winner.
type PaymentRepository interface {
	// Register stores a new payment row with status "created".
	Register(ctx context.Context, provider model.PaymentProvider, paymentID string, orderID int64, expiresAt time.Time) (*model.Payment, error)
	// ApplyStatus sets status for payment_id unless the payment is already
	// terminal, and returns the status the payment had before this call.
	ApplyStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.StatusTransition, error)
	// CancelByOrderID moves the order's payment out of a cancelable state.
	// Returns ErrNotCancelable when no payment matched.
	CancelByOrderID(ctx context.Context, orderID int64, target model.PaymentStatus) (*model.Payment, error)
	// ListExpired returns non-terminal payments whose expires_at has passed.
	ListExpired(ctx context.Context, limit int) ([]model.Payment, error)
	// ListPending returns payments still in "created" for the given provider.
	ListPending(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
}
