package logger

import "go.uber.org/fx"

// Module supplies the process logger to the fx graph.
var Module = fx.Provide(New)
