package handlers

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, address string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CartFacade exposes cart operations over HTTP.
type CartFacade interface {
	CartItems(ctx context.Context, userID int64) ([]model.Item, error)
	AddCartItem(ctx context.Context, userID, itemID int64) error
	RemoveCartItem(ctx context.Context, userID, itemID int64) error
}

// PaymentFacade covers intent issuance, webhook delivery, and cancellation.
type PaymentFacade interface {
	CreatePayment(ctx context.Context, userID int64, provider model.PaymentProvider, currency string) (*model.Intent, error)
	HandleWebhookEvent(ctx context.Context, eventType, paymentID string) error
	CancelOrderForUser(ctx context.Context, userID, orderID int64) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CartFacade
	PaymentFacade
}
