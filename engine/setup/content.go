package setup

import (
	"context"

	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/ui"
	"github.com/go-gl/mathgl/mgl32"
)

// Content loads the hero model and then swaps the loading screen for the welcome screen.
// A failed load degrades the stage; the UI transitions run either way.
type Content struct {
	scene    scene.Scene
	importer Importer
	overlay  ui.Overlay
	cfg      config.Config
	opts     options
}

var _ lifecycle.Stage = &Content{}

// NewContent creates the content stage.
//
// Parameters:
//   - sc: the scene being built
//   - importer: loads the hero model
//   - overlay: holds the loading and welcome screens
//   - cfg: scene constants
//   - opts: stage options
//
// Returns:
//   - *Content: the stage
func NewContent(sc scene.Scene, importer Importer, overlay ui.Overlay, cfg config.Config, opts ...StageBuilderOption) *Content {
	return &Content{scene: sc, importer: importer, overlay: overlay, cfg: cfg, opts: newOptions(opts)}
}

func (c *Content) Name() string {
	return "content"
}

func (c *Content) Target() lifecycle.State {
	return lifecycle.ContentReady
}

func (c *Content) Run(ctx context.Context) (lifecycle.Outcome, error) {
	loaded := c.LoadHeroAsset(ctx)
	if err := ctx.Err(); err != nil {
		return lifecycle.Degraded, err
	}

	c.DismissLoadingScreen()
	c.ShowWelcomeScreen()

	if !loaded {
		return lifecycle.Degraded, nil
	}
	return lifecycle.Completed, nil
}

// LoadHeroAsset imports the hero model. On success the first mesh becomes the hero,
// is moved to the origin and is registered with its descendants as a shadow caster.
// Failures are logged and leave the scene unchanged.
//
// Parameters:
//   - ctx: cancels the import
//
// Returns:
//   - bool: true if the hero was loaded
func (c *Content) LoadHeroAsset(ctx context.Context) bool {
	url := c.cfg.Hero.URL
	if c.importer == nil {
		c.opts.logger.Error("hero mesh load failed", "url", url, "error", "no importer")
		return false
	}

	c.opts.logger.Info("Starting hero mesh load.", "url", url)

	res, err := c.importer.Import(ctx, url)
	if err != nil {
		c.opts.logger.Error("hero mesh load failed", "url", url, "error", err)
		return false
	}
	if res == nil || len(res.Meshes) == 0 || res.Meshes[0] == nil {
		c.opts.logger.Error("hero mesh load failed", "url", url, "error", "no meshes")
		return false
	}

	hero := res.Meshes[0]
	hero.SetPosition(mgl32.Vec3{})
	c.scene.AddMesh(hero)
	c.scene.SetHero(hero)
	if gen, ok := c.scene.ShadowGenerator(); ok {
		gen.AddShadowCaster(hero, true)
	}

	c.opts.logger.Info("Hero mesh loaded.", "url", url, "meshes", len(res.Meshes))
	return true
}

// DismissLoadingScreen hides the loading screen. A missing element is logged.
func (c *Content) DismissLoadingScreen() {
	c.toggle(c.cfg.UI.LoadingScreenID, false)
}

// ShowWelcomeScreen reveals the welcome screen. A missing element is logged.
func (c *Content) ShowWelcomeScreen() {
	c.toggle(c.cfg.UI.WelcomeScreenID, true)
}

func (c *Content) toggle(id string, visible bool) {
	if c.overlay == nil {
		c.opts.logger.Warn("ui overlay missing", "element", id)
		return
	}
	var err error
	if visible {
		err = c.overlay.Show(id)
	} else {
		err = c.overlay.Hide(id)
	}
	if err != nil {
		c.opts.logger.Warn("ui element missing", "element", id, "error", err)
	}
}
