package config

import "go.uber.org/fx"

// Module exposes the storefront configuration loader to fx graphs.
var Module = fx.Provide(Load)
