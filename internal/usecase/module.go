package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkart/storefront/internal/adapter/provider"
	"github.com/polkart/storefront/internal/config"
	"github.com/polkart/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCartUseCase,
	NewCheckoutUseCase,
	newPaymentUseCase,
)

type paymentParams struct {
	fx.In

	Orders    repository.OrderRepository
	Payments  repository.PaymentRepository
	Carts     repository.CartRepository
	Providers provider.Registry
	Checkout  *CheckoutUseCase
	Config    *config.Config
	Logger    *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Payments, p.Carts, p.Providers, p.Checkout, p.Config.OrderExpiration, p.Logger)
}
