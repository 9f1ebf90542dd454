package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/polkart/storefront/internal/adapter/provider"
	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/domain/repository"
)

// webhookStatus maps provider webhook event types onto the state machine.
var webhookStatus = map[string]model.PaymentStatus{
	"payment_intent.succeeded":      model.PaymentStatusSucceeded,
	"payment_intent.processing":     model.PaymentStatusProcessing,
	"payment_intent.canceled":       model.PaymentStatusCanceled,
	"payment_intent.payment_failed": model.PaymentStatusFailed,
	"payment_intent.created":        model.PaymentStatusCreated,
}

// PaymentUseCase drives the payment lifecycle: intent creation, status
// transitions from webhooks and polls, cancellation and expiry.
type PaymentUseCase struct {
	orders     repository.OrderRepository
	payments   repository.PaymentRepository
	carts      repository.CartRepository
	providers  provider.Registry
	checkout   *CheckoutUseCase
	expiration time.Duration
	logger     *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	carts repository.CartRepository,
	providers provider.Registry,
	checkout *CheckoutUseCase,
	expiration time.Duration,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:     orders,
		payments:   payments,
		carts:      carts,
		providers:  providers,
		checkout:   checkout,
		expiration: expiration,
		logger:     logger,
	}
}

// CreatePayment turns the user's cart into an order with a registered
// payment intent.
func (u *PaymentUseCase) CreatePayment(ctx context.Context, userID int64, providerName model.PaymentProvider, currency string) (*model.Intent, error) {
	adapter, err := u.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	prepared, err := u.orders.PrepareFromCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The prior pending payment was already canceled locally inside the
	// preparation transaction; tell its backend too. Local state stays
	// authoritative if the backend disagrees.
	if displaced := prepared.Displaced; displaced != nil {
		if prior, err := u.providers.Get(displaced.Provider); err == nil {
			if err := prior.CancelIntent(ctx, displaced.PaymentID); err != nil {
				u.logger.Warn("displaced intent cancel failed",
					slog.String("payment_id", displaced.PaymentID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	intent, err := adapter.CreateIntent(ctx, prepared.AmountBaseUnit, currency)
	if err != nil {
		u.logger.Error("create intent failed",
			slog.Int64("user_id", userID),
			slog.String("provider", string(providerName)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	expiresAt := time.Now().Add(u.expiration)
	if _, err := u.payments.Register(ctx, providerName, intent.ID, prepared.Order.ID, expiresAt); err != nil {
		return nil, err
	}

	return intent, nil
}

// HandleWebhookEvent applies the transition a provider webhook describes.
// Unmapped event types are a hard error, never silently dropped.
func (u *PaymentUseCase) HandleWebhookEvent(ctx context.Context, eventType, paymentID string) error {
	status, ok := webhookStatus[eventType]
	if !ok {
		u.logger.Error("unhandled webhook event type", slog.String("type", eventType))
		return domainErrors.ErrUnknownEventType
	}
	return u.applyStatus(ctx, paymentID, status)
}

// ApplyPolledStatus feeds a polled provider status through the same
// transition path webhooks use. A still-pending report is a no-op.
func (u *PaymentUseCase) ApplyPolledStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error {
	if status == model.PaymentStatusCreated {
		return nil
	}
	return u.applyStatus(ctx, paymentID, status)
}

func (u *PaymentUseCase) applyStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error {
	transition, err := u.payments.ApplyStatus(ctx, paymentID, status)
	if err != nil {
		return err
	}

	// Only the call that actually moved the payment into succeeded runs
	// checkout; a redelivered event sees a terminal previous status.
	if status == model.PaymentStatusSucceeded && !transition.Previous.Terminal() {
		if _, err := u.checkout.Checkout(ctx, transition.OrderID); err != nil {
			return err
		}
		if err := u.carts.DeleteByOrderID(ctx, transition.OrderID); err != nil {
			return err
		}
	}
	return nil
}

// CancelOrder transitions the order's payment to target and cancels the
// intent at its backend. Local state is the source of truth: a backend-side
// cancel failure is surfaced but the transition stands.
func (u *PaymentUseCase) CancelOrder(ctx context.Context, orderID int64, target model.PaymentStatus) error {
	payment, err := u.payments.CancelByOrderID(ctx, orderID, target)
	if err != nil {
		return err
	}

	adapter, err := u.providers.Get(payment.Provider)
	if err != nil {
		u.logger.Error("payment references unknown provider",
			slog.Int64("order_id", orderID),
			slog.String("provider", string(payment.Provider)),
		)
		return domainErrors.ErrPaymentMissing
	}

	if err := adapter.CancelIntent(ctx, payment.PaymentID); err != nil {
		u.logger.Warn("provider-side intent cancel failed",
			slog.Int64("order_id", orderID),
			slog.String("payment_id", payment.PaymentID),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// CancelOrderForUser cancels an order on behalf of its owner.
func (u *PaymentUseCase) CancelOrderForUser(ctx context.Context, userID, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return domainErrors.ErrNotFound
	}
	return u.CancelOrder(ctx, orderID, model.PaymentStatusCanceled)
}

// ExpiredPayments lists overdue payments still awaiting settlement.
func (u *PaymentUseCase) ExpiredPayments(ctx context.Context, limit int) ([]model.Payment, error) {
	return u.payments.ListExpired(ctx, limit)
}

// PendingPayments lists payments awaiting settlement at the given provider.
func (u *PaymentUseCase) PendingPayments(ctx context.Context, providerName model.PaymentProvider, limit int) ([]model.Payment, error) {
	return u.payments.ListPending(ctx, providerName, limit)
}

// PollCapableProviders returns the providers that support status polling.
func (u *PaymentUseCase) PollCapableProviders() []model.PaymentProvider {
	var result []model.PaymentProvider
	for name, adapter := range u.providers {
		if _, ok := adapter.(provider.StatusPoller); ok {
			result = append(result, name)
		}
	}
	return result
}

// PollPayment asks the payment's backend for its view of the intent and
// applies any reported settlement. Backends without polling are skipped;
// the missing capability is not an error.
func (u *PaymentUseCase) PollPayment(ctx context.Context, payment model.Payment) error {
	adapter, err := u.providers.Get(payment.Provider)
	if err != nil {
		return err
	}
	poller, ok := adapter.(provider.StatusPoller)
	if !ok {
		return nil
	}

	status, err := poller.PollStatus(ctx, payment.PaymentID)
	if err != nil {
		return err
	}
	return u.ApplyPolledStatus(ctx, payment.PaymentID, status)
}

// PaymentForOrder exposes the latest payment registered for an order.
func (u *PaymentUseCase) PaymentForOrder(ctx context.Context, orderID int64) (*model.Payment, error) {
	payment, err := u.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrPaymentMissing
		}
		return nil, err
	}
	return payment, nil
}
