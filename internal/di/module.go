package di

import (
	"github.com/polkart/storefront/internal/adapter/currency"
	"github.com/polkart/storefront/internal/adapter/fulfillment"
	"github.com/polkart/storefront/internal/adapter/provider"
	"github.com/polkart/storefront/internal/app"
	"github.com/polkart/storefront/internal/config"
	"github.com/polkart/storefront/internal/logger"
	"github.com/polkart/storefront/internal/pkg/auth"
	"github.com/polkart/storefront/internal/server/http/handlers"
	"github.com/polkart/storefront/internal/server/http/router"
	"github.com/polkart/storefront/internal/storage/postgres"
	"github.com/polkart/storefront/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		currency.Module,
		provider.Module,
		fulfillment.Module,
		usecase.Module,
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
