package router

import "go.uber.org/fx"

// Module registers storefront HTTP router construction for fx runtime.
var Module = fx.Provide(Setup)
