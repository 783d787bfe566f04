package lifecycle

import "log/slog"

// DriverBuilderOption is a functional option for configuring a Driver via NewDriver.
type DriverBuilderOption func(*driver)

// WithTransitionHook registers a hook fired after every forward state change.
// Hooks run on the initializing goroutine in registration order.
//
// Parameters:
//   - hook: the transition observer
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithTransitionHook(hook TransitionHook) DriverBuilderOption {
	return func(d *driver) {
		if hook != nil {
			d.hooks = append(d.hooks, hook)
		}
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) DriverBuilderOption {
	return func(d *driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}
