package currency

import (
	"go.uber.org/fx"

	"github.com/polkart/storefront/internal/config"
)

// Module exposes the currency converter to the fx graph.
var Module = fx.Provide(newConverter)

func newConverter(cfg *config.Config) (Converter, error) {
	return NewFixedRateConverter(cfg.BaseCurrency)
}
