package test

import (
	"context"
	"sync"

	"github.com/polkart/storefront/internal/domain/model"
)

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartItemsFn  func(context.Context, int64) ([]model.Item, error)
	AddItemFn    func(context.Context, int64, int64) error
	RemoveItemFn func(context.Context, int64, int64) error
}

// CartItems returns configured cart contents.
func (s CartFacadeStub) CartItems(ctx context.Context, userID int64) ([]model.Item, error) {
	if s.CartItemsFn != nil {
		return s.CartItemsFn(ctx, userID)
	}
	return []model.Item{{ID: 1, Name: "print", Price: 500, TokenID: "7"}}, nil
}

// AddCartItem executes configured add handler.
func (s CartFacadeStub) AddCartItem(ctx context.Context, userID, itemID int64) error {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, userID, itemID)
	}
	return nil
}

// RemoveCartItem executes configured remove handler.
func (s CartFacadeStub) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	if s.RemoveItemFn != nil {
		return s.RemoveItemFn(ctx, userID, itemID)
	}
	return nil
}

// PaymentFacadeStub simulates payment facade interactions for handlers.
type PaymentFacadeStub struct {
	CreateFn  func(context.Context, int64, model.PaymentProvider, string) (*model.Intent, error)
	WebhookFn func(context.Context, string, string) error
	CancelFn  func(context.Context, int64, int64) error
}

// CreatePayment returns configured intent or a default one.
func (s PaymentFacadeStub) CreatePayment(ctx context.Context, userID int64, provider model.PaymentProvider, currency string) (*model.Intent, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, provider, currency)
	}
	return &model.Intent{ID: "pi_1", ClientSecret: "secret", Amount: "5.00", Currency: "eur"}, nil
}

// HandleWebhookEvent executes configured webhook handler.
func (s PaymentFacadeStub) HandleWebhookEvent(ctx context.Context, eventType, paymentID string) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, eventType, paymentID)
	}
	return nil
}

// CancelOrderForUser executes configured cancel handler.
func (s PaymentFacadeStub) CancelOrderForUser(ctx context.Context, userID, orderID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, orderID)
	}
	return nil
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CartFacadeStub
	PaymentFacadeStub
}

// SweepCancelCall records an expiry cancellation issued by the sweeper.
type SweepCancelCall struct {
	OrderID int64
	Target  model.PaymentStatus
}

// SweepFacadeStub mimics sweeper interactions with the store facade.
type SweepFacadeStub struct {
	ExpiredFn   func(context.Context, int) ([]model.Payment, error)
	PendingFn   func(context.Context, model.PaymentProvider, int) ([]model.Payment, error)
	ProvidersFn func() []model.PaymentProvider
	CancelFn    func(context.Context, int64, model.PaymentStatus) error
	PollFn      func(context.Context, model.Payment) error

	Expired []model.Payment
	Pending []model.Payment

	mu      sync.Mutex
	Cancels []SweepCancelCall
	Polled  []model.Payment
}

// Lock exposes internal mutex for external synchronization.
func (s *SweepFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweepFacadeStub) Unlock() { s.mu.Unlock() }

// ExpiredPayments returns overdue payments once, then nothing.
func (s *SweepFacadeStub) ExpiredPayments(ctx context.Context, limit int) ([]model.Payment, error) {
	if s.ExpiredFn != nil {
		return s.ExpiredFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.Expired
	s.Expired = nil
	return out, nil
}

// PendingPayments returns pending payments once, then nothing.
func (s *SweepFacadeStub) PendingPayments(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, provider, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	var rest []model.Payment
	for _, p := range s.Pending {
		if p.Provider == provider {
			out = append(out, p)
		} else {
			rest = append(rest, p)
		}
	}
	s.Pending = rest
	return out, nil
}

// PollCapableProviders reports which providers support polling.
func (s *SweepFacadeStub) PollCapableProviders() []model.PaymentProvider {
	if s.ProvidersFn != nil {
		return s.ProvidersFn()
	}
	return []model.PaymentProvider{model.ProviderCrypto}
}

// CancelOrder records expiry cancellations.
func (s *SweepFacadeStub) CancelOrder(ctx context.Context, orderID int64, target model.PaymentStatus) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, target)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancels = append(s.Cancels, SweepCancelCall{OrderID: orderID, Target: target})
	return nil
}

// PollPayment records polled payments.
func (s *SweepFacadeStub) PollPayment(ctx context.Context, payment model.Payment) error {
	if s.PollFn != nil {
		return s.PollFn(ctx, payment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Polled = append(s.Polled, payment)
	return nil
}

// TransferCall captures one fulfillment dispatch.
type TransferCall struct {
	Recipient string
	Items     []model.Item
}

// TransferrerStub records fulfillment transfers.
type TransferrerStub struct {
	TransferFn func(context.Context, []model.Item, string) error

	mu    sync.Mutex
	Calls []TransferCall
	Done  chan struct{}
}

// Transfer records the call and optionally signals completion.
func (s *TransferrerStub) Transfer(ctx context.Context, items []model.Item, recipient string) error {
	if s.TransferFn != nil {
		return s.TransferFn(ctx, items, recipient)
	}
	s.mu.Lock()
	s.Calls = append(s.Calls, TransferCall{Recipient: recipient, Items: items})
	s.mu.Unlock()
	if s.Done != nil {
		select {
		case s.Done <- struct{}{}:
		default:
		}
	}
	return nil
}

// TransferCalls returns a snapshot of recorded transfers.
func (s *TransferrerStub) TransferCalls() []TransferCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TransferCall, len(s.Calls))
	copy(out, s.Calls)
	return out
}

// AdapterStub implements the payment backend contract for tests.
type AdapterStub struct {
	NameVal  model.PaymentProvider
	CreateFn func(context.Context, int64, string) (*model.Intent, error)
	CancelFn func(context.Context, string) error

	Created  []int64
	Canceled []string
}

// Name returns the configured provider identifier.
func (s *AdapterStub) Name() model.PaymentProvider {
	if s.NameVal == "" {
		return model.ProviderTest
	}
	return s.NameVal
}

// CreateIntent records the amount and returns a deterministic intent.
func (s *AdapterStub) CreateIntent(ctx context.Context, amountBaseUnit int64, currency string) (*model.Intent, error) {
	s.Created = append(s.Created, amountBaseUnit)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amountBaseUnit, currency)
	}
	return &model.Intent{ID: "pi_stub", ClientSecret: "cs_stub", Amount: "5.00", Currency: currency}, nil
}

// CancelIntent records canceled intent identifiers.
func (s *AdapterStub) CancelIntent(ctx context.Context, intentID string) error {
	s.Canceled = append(s.Canceled, intentID)
	if s.CancelFn != nil {
		return s.CancelFn(ctx, intentID)
	}
	return nil
}

// PollingAdapterStub extends AdapterStub with a poll capability.
type PollingAdapterStub struct {
	AdapterStub
	PollFn func(context.Context, string) (model.PaymentStatus, error)
	Status model.PaymentStatus
	Polled []string
}

// PollStatus returns the configured backend-side status.
func (s *PollingAdapterStub) PollStatus(ctx context.Context, intentID string) (model.PaymentStatus, error) {
	s.Polled = append(s.Polled, intentID)
	if s.PollFn != nil {
		return s.PollFn(ctx, intentID)
	}
	if s.Status == "" {
		return model.PaymentStatusCreated, nil
	}
	return s.Status, nil
}
