package app

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/usecase"
)

// StoreFacade aggregates the storefront use cases behind one surface shared
// by HTTP handlers and the sweep worker.
type StoreFacade struct {
	auth     *usecase.AuthUseCase
	cart     *usecase.CartUseCase
	payments *usecase.PaymentUseCase
}

func NewStoreFacade(auth *usecase.AuthUseCase, cart *usecase.CartUseCase, payments *usecase.PaymentUseCase) *StoreFacade {
	return &StoreFacade{auth: auth, cart: cart, payments: payments}
}

func (f *StoreFacade) Register(ctx context.Context, login, password, address string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, address)
	return token, err
}

func (f *StoreFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StoreFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) CartItems(ctx context.Context, userID int64) ([]model.Item, error) {
	return f.cart.List(ctx, userID)
}

func (f *StoreFacade) AddCartItem(ctx context.Context, userID, itemID int64) error {
	return f.cart.AddItem(ctx, userID, itemID)
}

func (f *StoreFacade) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	return f.cart.RemoveItem(ctx, userID, itemID)
}

func (f *StoreFacade) CreatePayment(ctx context.Context, userID int64, provider model.PaymentProvider, currency string) (*model.Intent, error) {
	return f.payments.CreatePayment(ctx, userID, provider, currency)
}

func (f *StoreFacade) HandleWebhookEvent(ctx context.Context, eventType, paymentID string) error {
	return f.payments.HandleWebhookEvent(ctx, eventType, paymentID)
}

func (f *StoreFacade) CancelOrderForUser(ctx context.Context, userID, orderID int64) error {
	return f.payments.CancelOrderForUser(ctx, userID, orderID)
}

func (f *StoreFacade) CancelOrder(ctx context.Context, orderID int64, target model.PaymentStatus) error {
	return f.payments.CancelOrder(ctx, orderID, target)
}

func (f *StoreFacade) ExpiredPayments(ctx context.Context, limit int) ([]model.Payment, error) {
	return f.payments.ExpiredPayments(ctx, limit)
}

func (f *StoreFacade) PendingPayments(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error) {
	return f.payments.PendingPayments(ctx, provider, limit)
}

func (f *StoreFacade) PollCapableProviders() []model.PaymentProvider {
	return f.payments.PollCapableProviders()
}

func (f *StoreFacade) PollPayment(ctx context.Context, payment model.Payment) error {
	return f.payments.PollPayment(ctx, payment)
}
