package app

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/setup"
	"github.com/Carmen-Shannon/oxy-vr/engine/ui"
	"github.com/Carmen-Shannon/oxy-vr/engine/window"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
)

// ApplicationBuilderOption is a functional option for configuring an Application.
type ApplicationBuilderOption func(*application)

// WithWindow uses w instead of creating a GLFW window. The caller keeps ownership.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithWindow(w window.Window) ApplicationBuilderOption {
	return func(a *application) {
		a.window = w
	}
}

// WithRenderer uses r instead of creating a WebGPU renderer. The caller keeps ownership.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) ApplicationBuilderOption {
	return func(a *application) {
		a.renderer = r
	}
}

// WithScene uses s as the scene being built.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithScene(s scene.Scene) ApplicationBuilderOption {
	return func(a *application) {
		a.scene = s
	}
}

// WithOverlay uses o instead of the default loading and welcome overlay.
//
// Parameters:
//   - o: the overlay
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithOverlay(o ui.Overlay) ApplicationBuilderOption {
	return func(a *application) {
		a.overlay = o
	}
}

// WithImporter uses imp to load the hero model instead of a glTF loader.
//
// Parameters:
//   - imp: the importer
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithImporter(imp setup.Importer) ApplicationBuilderOption {
	return func(a *application) {
		a.importer = imp
	}
}

// WithXRProvider uses p to create the XR experience.
//
// Parameters:
//   - p: the XR provider
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithXRProvider(p xr.Provider) ApplicationBuilderOption {
	return func(a *application) {
		a.provider = p
	}
}

// WithStages appends extension stages after the default chain.
//
// Parameters:
//   - stages: stages to run after the content stage
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithStages(stages ...lifecycle.Stage) ApplicationBuilderOption {
	return func(a *application) {
		a.extra = append(a.extra, stages...)
	}
}

// WithTransitionHook registers a hook fired on every lifecycle transition.
//
// Parameters:
//   - hook: the hook
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithTransitionHook(hook lifecycle.TransitionHook) ApplicationBuilderOption {
	return func(a *application) {
		if hook != nil {
			a.hooks = append(a.hooks, hook)
		}
	}
}

// WithLogger sets the structured logger. Without it the logger is built from the
// log section of the configuration.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ApplicationBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ApplicationBuilderOption {
	return func(a *application) {
		a.logger = logger
	}
}
