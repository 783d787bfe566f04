// Package setup holds the ordered stages that build the VR demo scene:
// the base environment, optional XR support and the hero content.
package setup

import (
	"context"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/loader"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/ui"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
)

// Importer loads a model and returns its meshes with the root first.
// loader.Loader satisfies it.
type Importer interface {
	Import(ctx context.Context, location string) (*loader.ImportResult, error)
}

// options are shared by every stage constructor.
type options struct {
	logger *slog.Logger
	input  camera.InputSource
	aspect float32
}

// StageBuilderOption is a functional option for configuring a setup stage.
type StageBuilderOption func(*options)

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) StageBuilderOption {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInput sets the input source the camera attaches to.
//
// Parameters:
//   - src: pointer, wheel and keyboard events, usually the window
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithInput(src camera.InputSource) StageBuilderOption {
	return func(o *options) {
		o.input = src
	}
}

// WithAspect sets the initial camera aspect ratio. Non-positive values are ignored.
//
// Parameters:
//   - aspect: width divided by height
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithAspect(aspect float32) StageBuilderOption {
	return func(o *options) {
		if aspect > 0 {
			o.aspect = aspect
		}
	}
}

func newOptions(opts []StageBuilderOption) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewDefaultStages returns the base, XR and content stages in order.
//
// Parameters:
//   - sc: the scene being built
//   - provider: creates the XR experience
//   - importer: loads the hero model
//   - overlay: holds the loading and welcome screens
//   - cfg: scene constants
//   - opts: options shared by all stages
//
// Returns:
//   - []lifecycle.Stage: the ordered stages
func NewDefaultStages(sc scene.Scene, provider xr.Provider, importer Importer, overlay ui.Overlay, cfg config.Config, opts ...StageBuilderOption) []lifecycle.Stage {
	return []lifecycle.Stage{
		NewBase(sc, cfg, opts...),
		NewXR(sc, provider, cfg, opts...),
		NewContent(sc, importer, overlay, cfg, opts...),
	}
}
