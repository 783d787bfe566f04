package loader

import (
	"log/slog"
	"net/http"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithOfflineSupport is an option builder that toggles the raw-bytes cache.
// When enabled, each location is fetched at most once per Loader.
//
// Parameters:
//   - enabled: true to cache fetched bytes by location
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithOfflineSupport(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.offline = enabled
	}
}

// WithWorkers is an option builder that sets the import worker pool size.
// Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of concurrent imports
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithHTTPClient is an option builder that sets the client used for http(s) locations.
//
// Parameters:
//   - c: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger is an option builder that sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
