package renderer

import "log/slog"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.config.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		if count == MSAAOff || count == MSAA4x {
			r.config.sampleCount = count
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.forceFallbackAdapter = force
	}
}

// WithStencil allocates a stencil aspect alongside the depth buffer.
//
// Parameters:
//   - enabled: true to use a Depth24PlusStencil8 depth buffer
//
// Returns:
//   - RendererBuilderOption: a function that applies the stencil option to a renderer
func WithStencil(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.stencil = enabled
	}
}

// WithPreserveDrawingBuffer keeps the multisampled colour contents after each frame
// instead of discarding them once resolved, so they remain readable until the next clear.
//
// Parameters:
//   - preserve: true to store the colour attachment
//
// Returns:
//   - RendererBuilderOption: a function that applies the preserve option to a renderer
func WithPreserveDrawingBuffer(preserve bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.preserveDrawingBuffer = preserve
	}
}

// WithLogger sets the structured logger used for surface and texture failures.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
