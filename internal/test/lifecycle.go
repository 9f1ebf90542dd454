package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder captures fx lifecycle hooks appended during tests so they
// can be invoked manually.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores the hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub records graceful shutdown requests.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown notifies the test about a termination request.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
