package provider

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkart/storefront/internal/adapter/currency"
	"github.com/polkart/storefront/internal/config"
	"github.com/polkart/storefront/internal/domain/model"
)

// Module builds the provider registry once at startup; no per-call dispatch.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config    *config.Config
	Converter currency.Converter
	Logger    *slog.Logger
}

func newRegistry(p registryParams) (Registry, error) {
	registry := Registry{}

	if p.Config.CardGatewayAddress != "" {
		card, err := NewCardClient(p.Config.CardGatewayAddress, p.Config.CardGatewaySecret, p.Converter, p.Logger)
		if err != nil {
			return nil, err
		}
		registry[model.ProviderCard] = card
	}

	if p.Config.CryptoGatewayAddress != "" {
		crypto, err := NewCryptoClient(p.Config.CryptoGatewayAddress, p.Converter, p.Logger)
		if err != nil {
			return nil, err
		}
		registry[model.ProviderCrypto] = crypto
	}

	registry[model.ProviderTest] = NewTestAdapter(p.Converter)

	return registry, nil
}
