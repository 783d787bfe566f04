package setup

import (
	"context"
	"errors"

	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
)

// XR attaches a default XR experience with teleportation onto the ground.
// Missing XR support is logged and leaves the scene without an experience.
type XR struct {
	scene    scene.Scene
	provider xr.Provider
	cfg      config.Config
	opts     options
}

var _ lifecycle.Stage = &XR{}

// NewXR creates the XR stage.
//
// Parameters:
//   - sc: the scene being built
//   - provider: creates the XR experience; nil behaves like an unsupported runtime
//   - cfg: scene constants
//   - opts: stage options
//
// Returns:
//   - *XR: the stage
func NewXR(sc scene.Scene, provider xr.Provider, cfg config.Config, opts ...StageBuilderOption) *XR {
	return &XR{scene: sc, provider: provider, cfg: cfg, opts: newOptions(opts)}
}

func (x *XR) Name() string {
	return "xr"
}

func (x *XR) Target() lifecycle.State {
	return lifecycle.XrReady
}

func (x *XR) Run(ctx context.Context) (lifecycle.Outcome, error) {
	if !x.cfg.XR.Enabled {
		x.opts.logger.Info("xr disabled")
		return lifecycle.Completed, nil
	}
	if x.provider == nil {
		x.opts.logger.Warn("xr not available", "error", xr.ErrUnsupported)
		return lifecycle.Completed, nil
	}

	var floors []mesh.Mesh
	if ground, ok := x.scene.Ground(); ok {
		floors = append(floors, ground)
	}

	exp, err := x.provider.CreateDefaultExperience(ctx, xr.Options{FloorMeshes: floors})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return lifecycle.Completed, err
		}
		x.opts.logger.Warn("xr not available", "error", err)
		return lifecycle.Completed, nil
	}
	if exp == nil {
		x.opts.logger.Warn("xr not available", "error", xr.ErrUnsupported)
		return lifecycle.Completed, nil
	}

	x.scene.SetXR(exp)
	x.opts.logger.Info("xr experience ready", "floorMeshes", len(floors))
	return lifecycle.Completed, nil
}
