package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/light"
	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoKeyLight is returned by EnableShadows when lighting has not been set up.
var ErrNoKeyLight = errors.New("setup: shadows need a key light")

// Base sets up the environment, lighting, camera and shadows. Every failure is fatal.
type Base struct {
	scene scene.Scene
	cfg   config.Config
	opts  options
}

var _ lifecycle.Stage = &Base{}

// NewBase creates the base stage.
//
// Parameters:
//   - sc: the scene being built
//   - cfg: scene constants
//   - opts: stage options
//
// Returns:
//   - *Base: the stage
func NewBase(sc scene.Scene, cfg config.Config, opts ...StageBuilderOption) *Base {
	return &Base{scene: sc, cfg: cfg, opts: newOptions(opts)}
}

func (b *Base) Name() string {
	return "base"
}

func (b *Base) Target() lifecycle.State {
	return lifecycle.BaseReady
}

func (b *Base) Run(ctx context.Context) (lifecycle.Outcome, error) {
	steps := []func() error{b.SetUpEnvironment, b.SetUpLighting, b.SetUpCamera, b.EnableShadows}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return lifecycle.Completed, err
		}
		if err := step(); err != nil {
			return lifecycle.Completed, err
		}
	}
	return lifecycle.Completed, nil
}

// SetUpEnvironment sets the clear colour, builds the textured ground and loads the
// image-based lighting environment.
//
// Returns:
//   - error: texture or ground construction failures
func (b *Base) SetUpEnvironment() error {
	c := b.cfg.Scene.ClearColor
	b.scene.SetClearColor(c[0], c[1], c[2], c[3])

	g := b.cfg.Ground
	matOpts := []material.MaterialBuilderOption{
		material.WithAlbedoColor(g.AlbedoColor),
		material.WithRoughness(g.Roughness),
		material.WithMetallic(0),
	}
	if g.OpacityTexture != "" {
		tex, err := material.NewTexture(g.OpacityTexture)
		if err != nil {
			return fmt.Errorf("ground opacity texture: %w", err)
		}
		matOpts = append(matOpts, material.WithOpacityTexture(tex))
	}
	if g.AlbedoTexture != "" {
		tex, err := material.NewTexture(g.AlbedoTexture, material.WithUVScale(g.UVScale, g.UVScale))
		if err != nil {
			return fmt.Errorf("ground albedo texture: %w", err)
		}
		matOpts = append(matOpts, material.WithAlbedoTexture(tex))
	}

	ground, err := mesh.NewGround(g.Name, g.Width, g.Height, g.Subdivisions,
		mesh.WithMaterial(material.NewPBRMaterial(g.Name+"Material", matOpts...)),
		mesh.WithAlphaIndex(g.AlphaIndex),
		mesh.WithReceiveShadows(b.cfg.Shadows.Enabled),
	)
	if err != nil {
		return fmt.Errorf("ground: %w", err)
	}
	b.scene.SetGround(ground)

	if env := b.cfg.Environment; env.Texture != "" {
		tex, err := material.NewCubeTexture(env.Texture)
		if err != nil {
			return fmt.Errorf("environment texture: %w", err)
		}
		b.scene.SetEnvironment(light.NewEnvironmentLighting(tex, env.Intensity))
	}

	b.opts.logger.Debug("environment ready", "ground", g.Name)
	return nil
}

// SetUpLighting creates the directional key light.
//
// Returns:
//   - error: light construction failures
func (b *Base) SetUpLighting() error {
	l := b.cfg.Light
	key, err := light.NewDirectionalLight(l.Name, mgl32.Vec3(l.Direction),
		light.WithPosition(l.Position[0], l.Position[1], l.Position[2]),
		light.WithIntensity(l.Intensity),
		light.WithShadowEnabled(b.cfg.Shadows.Enabled),
	)
	if err != nil {
		return fmt.Errorf("key light: %w", err)
	}
	b.scene.SetKeyLight(key)
	return nil
}

// SetUpCamera creates the arc-rotate camera and attaches user input when configured.
//
// Returns:
//   - error: camera construction failures
func (b *Base) SetUpCamera() error {
	c := b.cfg.Camera
	camOpts := []camera.CameraBuilderOption{
		camera.WithFov(c.Fov),
		camera.WithMinZ(c.MinZ),
		camera.WithMaxZ(c.MaxZ),
		camera.WithWheelPrecision(c.WheelPrecision),
		camera.WithRadiusLimits(c.LowerRadiusLimit, 0),
	}
	if b.opts.aspect > 0 {
		camOpts = append(camOpts, camera.WithAspect(b.opts.aspect))
	}

	cam, err := camera.NewArcRotateCamera(c.Name, c.Alpha, c.Beta, c.Radius, mgl32.Vec3(c.Target), camOpts...)
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if c.AttachControl && b.opts.input != nil {
		cam.AttachControl(b.opts.input)
	}
	b.scene.SetCamera(cam)
	return nil
}

// EnableShadows creates the shadow generator for the key light. It does nothing when
// shadows are disabled.
//
// Returns:
//   - error: ErrNoKeyLight if lighting is not set up
func (b *Base) EnableShadows() error {
	if !b.cfg.Shadows.Enabled {
		b.opts.logger.Info("shadows disabled")
		return nil
	}
	key, ok := b.scene.KeyLight()
	if !ok {
		return ErrNoKeyLight
	}
	b.scene.SetShadowGenerator(light.NewShadowGenerator(key,
		light.WithMapSize(b.cfg.Shadows.MapSize),
		light.WithDarkness(b.cfg.Shadows.Darkness),
	))
	return nil
}
