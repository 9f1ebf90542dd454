package model

import "time"

// PaymentStatus describes payment lifecycle state.
type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusTimedOut   PaymentStatus = "timedOut"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// TerminalStatuses lists states a payment never leaves.
var TerminalStatuses = []PaymentStatus{
	PaymentStatusSucceeded,
	PaymentStatusFailed,
	PaymentStatusCanceled,
	PaymentStatusTimedOut,
}

// Terminal reports whether the status admits no further transition.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusTimedOut:
		return true
	}
	return false
}

// PaymentProvider identifies the backend a payment intent was issued by.
type PaymentProvider string

const (
	ProviderCrypto PaymentProvider = "cryptogate"
	ProviderCard   PaymentProvider = "cardgate"
	ProviderTest   PaymentProvider = "test_provider"
)

// StatusTransition reports the outcome of a conditional status update.
// Applied is false when the payment was already terminal and the update
// touched no rows.
type StatusTransition struct {
	OrderID  int64
	Previous PaymentStatus
	Applied  bool
}

// Payment links a provider-issued intent to an order and tracks its status.
type Payment struct {
	ID        int64
	PaymentID string
	Status    PaymentStatus
	OrderID   int64
	Provider  PaymentProvider
	ExpiresAt time.Time
	CreatedAt time.Time
}
