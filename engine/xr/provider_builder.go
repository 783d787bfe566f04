package xr

import "log/slog"

// ProviderBuilderOption is a functional option for configuring a Provider.
type ProviderBuilderOption func(*provider)

// WithRuntime sets the platform runtime the provider talks to.
//
// Parameters:
//   - r: the runtime, or nil for none
//
// Returns:
//   - ProviderBuilderOption: option function to apply
func WithRuntime(r Runtime) ProviderBuilderOption {
	return func(p *provider) {
		p.runtime = r
	}
}

// WithLogger sets the logger used by the provider.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - ProviderBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ProviderBuilderOption {
	return func(p *provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}
