package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkart/storefront/internal/adapter/provider"
	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type paymentFixture struct {
	orders      *test.OrderRepositoryStub
	payments    *test.PaymentRepositoryStub
	carts       *test.CartRepositoryStub
	items       *test.ItemRepositoryStub
	transferrer *test.TransferrerStub
	adapter     *test.AdapterStub
	registry    provider.Registry
	uc          *PaymentUseCase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orders:      &test.OrderRepositoryStub{},
		payments:    &test.PaymentRepositoryStub{},
		carts:       &test.CartRepositoryStub{SessionID: 1},
		items:       &test.ItemRepositoryStub{},
		transferrer: &test.TransferrerStub{},
		adapter:     &test.AdapterStub{NameVal: model.ProviderTest},
	}
	f.registry = provider.Registry{model.ProviderTest: f.adapter}
	logger := discardLogger()
	checkout := NewCheckoutUseCase(f.orders, f.items, f.transferrer, logger)
	f.uc = NewPaymentUseCase(f.orders, f.payments, f.carts, f.registry, checkout, 30*time.Minute, logger)
	return f
}

func TestPaymentUseCaseCreatePaymentRegistersIntent(t *testing.T) {
	f := newPaymentFixture()

	intent, err := f.uc.CreatePayment(context.Background(), 7, model.ProviderTest, "eur")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ID != "pi_stub" {
		t.Fatalf("unexpected intent id %s", intent.ID)
	}
	if len(f.payments.Registered) != 1 {
		t.Fatalf("expected one registered payment, got %d", len(f.payments.Registered))
	}
	registered := f.payments.Registered[0]
	if registered.PaymentID != "pi_stub" || registered.OrderID != 1 || registered.Provider != model.ProviderTest {
		t.Fatalf("unexpected registered payment %+v", registered)
	}
	if registered.ExpiresAt.Before(time.Now().Add(29 * time.Minute)) {
		t.Fatalf("expiry not pushed out: %v", registered.ExpiresAt)
	}
}

func TestPaymentUseCaseCreatePaymentUnknownProvider(t *testing.T) {
	f := newPaymentFixture()

	if _, err := f.uc.CreatePayment(context.Background(), 7, "nope", "eur"); err != domainErrors.ErrUnknownProvider {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
	if len(f.orders.Prepared) != 0 {
		t.Fatal("order preparation should not run for unknown provider")
	}
}

func TestPaymentUseCaseCreatePaymentCancelsDisplacedIntent(t *testing.T) {
	f := newPaymentFixture()
	f.orders.PrepareFromCartFn = func(ctx context.Context, userID int64) (*model.PreparedOrder, error) {
		return &model.PreparedOrder{
			Order:          model.Order{ID: 2, UserID: userID},
			AmountBaseUnit: 900,
			CartSessionID:  1,
			Displaced:      &model.Payment{PaymentID: "pi_old", Provider: model.ProviderTest, OrderID: 1},
		}, nil
	}

	if _, err := f.uc.CreatePayment(context.Background(), 7, model.ProviderTest, "eur"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.adapter.Canceled) != 1 || f.adapter.Canceled[0] != "pi_old" {
		t.Fatalf("expected displaced intent cancel, got %v", f.adapter.Canceled)
	}
}

func TestPaymentUseCaseCreatePaymentDisplacedCancelFailureIsNonFatal(t *testing.T) {
	f := newPaymentFixture()
	f.orders.PrepareFromCartFn = func(ctx context.Context, userID int64) (*model.PreparedOrder, error) {
		return &model.PreparedOrder{
			Order:          model.Order{ID: 2, UserID: userID},
			AmountBaseUnit: 900,
			CartSessionID:  1,
			Displaced:      &model.Payment{PaymentID: "pi_old", Provider: model.ProviderTest, OrderID: 1},
		}, nil
	}
	f.adapter.CancelFn = func(context.Context, string) error {
		return domainErrors.NewProviderError(string(model.ProviderTest), errors.New("backend down"))
	}

	if _, err := f.uc.CreatePayment(context.Background(), 7, model.ProviderTest, "eur"); err != nil {
		t.Fatalf("displaced cancel failure must not abort creation: %v", err)
	}
	if len(f.payments.Registered) != 1 {
		t.Fatal("new payment should still be registered")
	}
}

func TestPaymentUseCaseCreatePaymentPropagatesIntentError(t *testing.T) {
	f := newPaymentFixture()
	backendErr := domainErrors.NewProviderError(string(model.ProviderTest), errors.New("declined"))
	f.adapter.CreateFn = func(context.Context, int64, string) (*model.Intent, error) {
		return nil, backendErr
	}

	if _, err := f.uc.CreatePayment(context.Background(), 7, model.ProviderTest, "eur"); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(f.payments.Registered) != 0 {
		t.Fatal("no payment should be registered when intent creation fails")
	}
}

func TestPaymentUseCaseWebhookMapsEventTypes(t *testing.T) {
	cases := []struct {
		event  string
		status model.PaymentStatus
	}{
		{"payment_intent.succeeded", model.PaymentStatusSucceeded},
		{"payment_intent.processing", model.PaymentStatusProcessing},
		{"payment_intent.canceled", model.PaymentStatusCanceled},
		{"payment_intent.payment_failed", model.PaymentStatusFailed},
		{"payment_intent.created", model.PaymentStatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			f := newPaymentFixture()
			f.payments.Transition = &model.StatusTransition{OrderID: 1, Previous: model.PaymentStatusSucceeded, Applied: false}

			if err := f.uc.HandleWebhookEvent(context.Background(), tc.event, "pi_1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(f.payments.ApplyCalls) != 1 {
				t.Fatalf("expected one apply call, got %d", len(f.payments.ApplyCalls))
			}
			if got := f.payments.ApplyCalls[0].Status; got != tc.status {
				t.Fatalf("expected status %s, got %s", tc.status, got)
			}
		})
	}
}

func TestPaymentUseCaseWebhookUnknownEvent(t *testing.T) {
	f := newPaymentFixture()

	if err := f.uc.HandleWebhookEvent(context.Background(), "charge.refunded", "pi_1"); err != domainErrors.ErrUnknownEventType {
		t.Fatalf("expected unknown event error, got %v", err)
	}
	if len(f.payments.ApplyCalls) != 0 {
		t.Fatal("no transition should be attempted for unknown events")
	}
}

func TestPaymentUseCaseSucceededRunsCheckout(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Address = "tz1buyer"
	f.orders.AssignedIDs = []int64{10, 11}
	f.items.Items = []model.Item{
		{ID: 10, Name: "a", Price: 100, TokenID: "1"},
		{ID: 11, Name: "b", Price: 200, TokenID: "2"},
	}
	f.transferrer.Done = make(chan struct{}, 1)
	f.payments.Transition = &model.StatusTransition{OrderID: 5, Previous: model.PaymentStatusProcessing, Applied: true}

	if err := f.uc.HandleWebhookEvent(context.Background(), "payment_intent.succeeded", "pi_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.orders.AssignCalls) != 1 || f.orders.AssignCalls[0] != 5 {
		t.Fatalf("expected assignment for order 5, got %v", f.orders.AssignCalls)
	}
	if len(f.carts.Deleted) != 1 || f.carts.Deleted[0] != 5 {
		t.Fatalf("expected cart session delete for order 5, got %v", f.carts.Deleted)
	}

	select {
	case <-f.transferrer.Done:
	case <-time.After(time.Second):
		t.Fatal("fulfillment transfer was not dispatched")
	}
	calls := f.transferrer.TransferCalls()
	if len(calls) != 1 || calls[0].Recipient != "tz1buyer" || len(calls[0].Items) != 2 {
		t.Fatalf("unexpected transfer calls %+v", calls)
	}
}

func TestPaymentUseCaseRedeliveredSucceededSkipsCheckout(t *testing.T) {
	f := newPaymentFixture()
	f.payments.Transition = &model.StatusTransition{OrderID: 5, Previous: model.PaymentStatusSucceeded, Applied: false}

	if err := f.uc.HandleWebhookEvent(context.Background(), "payment_intent.succeeded", "pi_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.orders.AssignCalls) != 0 {
		t.Fatal("redelivered event must not run checkout again")
	}
	if len(f.carts.Deleted) != 0 {
		t.Fatal("redelivered event must not touch cart sessions")
	}
}

func TestPaymentUseCasePolledCreatedIsNoOp(t *testing.T) {
	f := newPaymentFixture()

	if err := f.uc.ApplyPolledStatus(context.Background(), "pi_1", model.PaymentStatusCreated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.payments.ApplyCalls) != 0 {
		t.Fatal("a still-pending poll result must not hit storage")
	}
}

func TestPaymentUseCaseCancelOrderNotCancelable(t *testing.T) {
	f := newPaymentFixture()

	if err := f.uc.CancelOrder(context.Background(), 9, model.PaymentStatusTimedOut); err != domainErrors.ErrNotCancelable {
		t.Fatalf("expected not cancelable error, got %v", err)
	}
	if len(f.adapter.Canceled) != 0 {
		t.Fatal("backend cancel must not run when local cancel failed")
	}
}

func TestPaymentUseCaseCancelOrderCancelsBackendIntent(t *testing.T) {
	f := newPaymentFixture()
	f.payments.Payments = []model.Payment{{PaymentID: "pi_9", OrderID: 9, Provider: model.ProviderTest, Status: model.PaymentStatusCreated}}

	if err := f.uc.CancelOrder(context.Background(), 9, model.PaymentStatusCanceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.adapter.Canceled) != 1 || f.adapter.Canceled[0] != "pi_9" {
		t.Fatalf("expected backend cancel for pi_9, got %v", f.adapter.Canceled)
	}
}

func TestPaymentUseCaseCancelOrderSurfacesBackendFailure(t *testing.T) {
	f := newPaymentFixture()
	f.payments.Payments = []model.Payment{{PaymentID: "pi_9", OrderID: 9, Provider: model.ProviderTest, Status: model.PaymentStatusCreated}}
	backendErr := domainErrors.NewProviderError(string(model.ProviderTest), errors.New("unreachable"))
	f.adapter.CancelFn = func(context.Context, string) error { return backendErr }

	if err := f.uc.CancelOrder(context.Background(), 9, model.PaymentStatusCanceled); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	// Local transition already happened regardless of the backend result.
	if len(f.payments.CancelCalls) != 1 {
		t.Fatalf("expected one local cancel, got %d", len(f.payments.CancelCalls))
	}
}

func TestPaymentUseCaseCancelOrderForUserChecksOwnership(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{{ID: 9, UserID: 2}}

	if err := f.uc.CancelOrderForUser(context.Background(), 1, 9); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
	if len(f.payments.CancelCalls) != 0 {
		t.Fatal("foreign order must not be canceled")
	}
}

func TestPaymentUseCaseCancelOrderForUserCancelsOwnOrder(t *testing.T) {
	f := newPaymentFixture()
	f.orders.Orders = []model.Order{{ID: 9, UserID: 1}}
	f.payments.Payments = []model.Payment{{PaymentID: "pi_9", OrderID: 9, Provider: model.ProviderTest}}

	if err := f.uc.CancelOrderForUser(context.Background(), 1, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.payments.CancelCalls) != 1 || f.payments.CancelCalls[0].Target != model.PaymentStatusCanceled {
		t.Fatalf("unexpected cancel calls %+v", f.payments.CancelCalls)
	}
}

func TestPaymentUseCasePollCapableProviders(t *testing.T) {
	f := newPaymentFixture()
	poller := &test.PollingAdapterStub{}
	poller.NameVal = model.ProviderCrypto
	f.registry[model.ProviderCrypto] = poller

	providers := f.uc.PollCapableProviders()
	if len(providers) != 1 || providers[0] != model.ProviderCrypto {
		t.Fatalf("expected only the polling provider, got %v", providers)
	}
}

func TestPaymentUseCasePollPaymentSkipsNonPollers(t *testing.T) {
	f := newPaymentFixture()

	err := f.uc.PollPayment(context.Background(), model.Payment{PaymentID: "pi_1", Provider: model.ProviderTest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.payments.ApplyCalls) != 0 {
		t.Fatal("non-polling providers must not produce transitions")
	}
}

func TestPaymentUseCasePollPaymentAppliesReportedStatus(t *testing.T) {
	f := newPaymentFixture()
	poller := &test.PollingAdapterStub{Status: model.PaymentStatusCanceled}
	poller.NameVal = model.ProviderCrypto
	f.registry[model.ProviderCrypto] = poller
	f.payments.Transition = &model.StatusTransition{OrderID: 3, Previous: model.PaymentStatusCreated, Applied: true}

	err := f.uc.PollPayment(context.Background(), model.Payment{PaymentID: "pi_3", Provider: model.ProviderCrypto})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.payments.ApplyCalls) != 1 || f.payments.ApplyCalls[0].Status != model.PaymentStatusCanceled {
		t.Fatalf("unexpected apply calls %+v", f.payments.ApplyCalls)
	}
}

func TestPaymentUseCasePaymentForOrderMissing(t *testing.T) {
	f := newPaymentFixture()

	if _, err := f.uc.PaymentForOrder(context.Background(), 404); err != domainErrors.ErrPaymentMissing {
		t.Fatalf("expected payment missing error, got %v", err)
	}
}
