package renderer

import "go.uber.org/zap"

// StateBuilderOption is a functional option for configuring NewState.
type StateBuilderOption func(o *stateOptions)

type stateOptions struct {
	logger               *zap.Logger
	forceFallbackAdapter bool
}

// WithLogger sets the logger for setup and rebuild messages.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) StateBuilderOption {
	return func(o *stateOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFallbackAdapter requests a software adapter.
func WithFallbackAdapter(force bool) StateBuilderOption {
	return func(o *stateOptions) {
		o.forceFallbackAdapter = force
	}
}
