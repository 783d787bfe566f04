package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-vr/engine/loader"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
	"github.com/Carmen-Shannon/oxy-vr/engine/scene"
	"github.com/Carmen-Shannon/oxy-vr/engine/ui"
	"github.com/Carmen-Shannon/oxy-vr/engine/xr"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImporter struct {
	result *loader.ImportResult
	err    error
	calls  []string
}

func (f *fakeImporter) Import(ctx context.Context, location string) (*loader.ImportResult, error) {
	f.calls = append(f.calls, location)
	return f.result, f.err
}

type fakeInput struct {
	scroll func(float32)
	drag   func(button int, dx, dy float32)
	key    func(uint32)
}

func (f *fakeInput) SetScrollCallback(cb func(float32)) {
	f.scroll = cb
}

func (f *fakeInput) SetPointerDragCallback(cb func(button int, dx, dy float32)) {
	f.drag = cb
}

func (f *fakeInput) SetKeyDownCallback(cb func(uint32)) {
	f.key = cb
}

// nilProvider reports success without an experience.
type nilProvider struct{}

func (nilProvider) CreateDefaultExperience(context.Context, xr.Options) (xr.Experience, error) {
	return nil, nil
}

// heroAsset returns an imported hierarchy: __root__ > body > wing, with the root off origin.
func heroAsset() *loader.ImportResult {
	root := mesh.NewMesh(loader.RootMeshName, mesh.WithPosition(1, 2, 3))
	body := mesh.NewMesh("body")
	wing := mesh.NewMesh("wing")
	root.AddChild(body)
	body.AddChild(wing)
	return &loader.ImportResult{URL: "plane.glb", Meshes: []mesh.Mesh{root, body, wing}}
}

func newOverlay(cfg config.Config) ui.Overlay {
	return ui.NewOverlay(
		ui.WithElement(cfg.UI.LoadingScreenID, cfg.UI.LoadingScreenLabel, true),
		ui.WithElement(cfg.UI.WelcomeScreenID, cfg.UI.WelcomeScreenLabel, false),
	)
}

func runBase(t *testing.T, sc scene.Scene, cfg config.Config) {
	t.Helper()
	outcome, err := NewBase(sc, cfg).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, lifecycle.Completed, outcome)
}

func assertUITransitioned(t *testing.T, o ui.Overlay, cfg config.Config) {
	t.Helper()
	loading, err := o.Visible(cfg.UI.LoadingScreenID)
	require.NoError(t, err)
	welcome, err := o.Visible(cfg.UI.WelcomeScreenID)
	require.NoError(t, err)
	assert.False(t, loading)
	assert.True(t, welcome)
}

func TestBaseStageBuildsScene(t *testing.T) {
	cfg := config.Default()
	sc := scene.NewScene()
	in := &fakeInput{}

	outcome, err := NewBase(sc, cfg, WithInput(in), WithAspect(2)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Completed, outcome)

	assert.Equal(t, [4]float64{0, 0, 0, 1}, sc.ClearColor())

	ground, ok := sc.Ground()
	require.True(t, ok)
	assert.Equal(t, "ground", ground.Name())
	assert.Equal(t, -1, ground.AlphaIndex())
	assert.True(t, ground.ReceiveShadows())
	require.NotNil(t, ground.Material())
	require.NotNil(t, ground.Material().AlbedoTexture())
	assert.Equal(t, float32(12), ground.Material().AlbedoTexture().UScale)
	assert.Equal(t, "./assets/textures/ground-fade.png", ground.Material().OpacityTexture().Path)
	assert.Equal(t, float32(1), ground.Material().Roughness())

	env, ok := sc.Environment()
	require.True(t, ok)
	assert.Equal(t, float32(0.8), env.Intensity())

	key, ok := sc.KeyLight()
	require.True(t, ok)
	assert.Equal(t, float32(0.4), key.Intensity())
	assert.Equal(t, float32(4), key.Position().Y())

	cam, ok := sc.Camera()
	require.True(t, ok)
	assert.Equal(t, float32(0.6), cam.Alpha())
	assert.Equal(t, float32(3), cam.Radius())
	assert.Equal(t, float32(50), cam.WheelPrecision())
	assert.Equal(t, float32(0.5), cam.LowerRadiusLimit())
	assert.Equal(t, float32(2), cam.Aspect())
	assert.True(t, cam.Target().ApproxEqual(mgl32.Vec3{0, 0.6, -0.2}))
	assert.True(t, cam.Attached())
	assert.NotNil(t, in.drag)

	gen, ok := sc.ShadowGenerator()
	require.True(t, ok)
	assert.Equal(t, 1024, gen.MapSize())
	assert.Same(t, key, gen.Light())
}

func TestBaseStageWithoutShadows(t *testing.T) {
	cfg := config.Default()
	cfg.Shadows.Enabled = false
	cfg.Camera.AttachControl = false
	sc := scene.NewScene()
	in := &fakeInput{}

	_, err := NewBase(sc, cfg, WithInput(in)).Run(context.Background())
	require.NoError(t, err)

	_, ok := sc.ShadowGenerator()
	assert.False(t, ok)
	ground, _ := sc.Ground()
	assert.False(t, ground.ReceiveShadows())
	cam, _ := sc.Camera()
	assert.False(t, cam.Attached())
	assert.Nil(t, in.drag)
}

func TestBaseStageFailuresAreFatal(t *testing.T) {
	cases := map[string]func(*config.Config){
		"ground":      func(c *config.Config) { c.Ground.Width = 0 },
		"light":       func(c *config.Config) { c.Light.Direction = [3]float32{} },
		"camera":      func(c *config.Config) { c.Camera.Radius = -1 },
		"environment": func(c *config.Config) { c.Environment.Texture = "sky.png" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			d := lifecycle.NewDriver()
			err := d.Initialize(context.Background(), NewBase(scene.NewScene(), cfg))
			assert.Error(t, err)
			assert.Equal(t, lifecycle.Uninitialized, d.State())
		})
	}

	assert.ErrorIs(t, NewBase(scene.NewScene(), config.Default()).EnableShadows(), ErrNoKeyLight)
}

func TestXRStage(t *testing.T) {
	cfg := config.Default()

	t.Run("emulated runtime", func(t *testing.T) {
		sc := scene.NewScene()
		require.NoError(t, NewBase(sc, cfg).SetUpEnvironment())

		provider := xr.NewProvider(xr.WithRuntime(xr.NewEmulatedRuntime()))
		outcome, err := NewXR(sc, provider, cfg).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Completed, outcome)

		exp, ok := sc.XR()
		require.True(t, ok)
		ground, _ := sc.Ground()
		assert.Equal(t, []mesh.Mesh{ground}, exp.Teleportation().FloorMeshes())
	})

	t.Run("unsupported runtime", func(t *testing.T) {
		sc := scene.NewScene()
		outcome, err := NewXR(sc, xr.NewProvider(), cfg).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Completed, outcome)
		_, ok := sc.XR()
		assert.False(t, ok)
	})

	t.Run("provider returns no experience", func(t *testing.T) {
		sc := scene.NewScene()
		outcome, err := NewXR(sc, nilProvider{}, cfg).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Completed, outcome)
		_, ok := sc.XR()
		assert.False(t, ok)
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := cfg
		disabled.XR.Enabled = false
		sc := scene.NewScene()
		_, err := NewXR(sc, xr.NewProvider(xr.WithRuntime(xr.NewEmulatedRuntime())), disabled).Run(context.Background())
		require.NoError(t, err)
		_, ok := sc.XR()
		assert.False(t, ok)
	})
}

func TestContentImportSuccess(t *testing.T) {
	cfg := config.Default()
	sc := scene.NewScene()
	runBase(t, sc, cfg)
	asset := heroAsset()
	importer := &fakeImporter{result: asset}
	overlay := newOverlay(cfg)

	outcome, err := NewContent(sc, importer, overlay, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Completed, outcome)
	assert.Equal(t, []string{cfg.Hero.URL}, importer.calls)

	hero, ok := sc.Hero()
	require.True(t, ok)
	assert.Same(t, asset.Meshes[0], hero)
	assert.Equal(t, mgl32.Vec3{}, hero.Position())

	gen, _ := sc.ShadowGenerator()
	for _, m := range asset.Meshes {
		assert.True(t, gen.IsCaster(m), m.Name())
	}
	_, ok = sc.MeshByName("wing")
	assert.True(t, ok)

	assertUITransitioned(t, overlay, cfg)
}

func TestContentImportFailureDegrades(t *testing.T) {
	cfg := config.Default()
	sc := scene.NewScene()
	runBase(t, sc, cfg)
	overlay := newOverlay(cfg)
	meshesBefore := len(sc.Meshes())

	importer := &fakeImporter{err: errors.New("network unreachable")}
	outcome, err := NewContent(sc, importer, overlay, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Degraded, outcome)

	_, ok := sc.Hero()
	assert.False(t, ok)
	gen, _ := sc.ShadowGenerator()
	assert.Empty(t, gen.Casters())
	assert.Len(t, sc.Meshes(), meshesBefore)

	assertUITransitioned(t, overlay, cfg)
}

func TestContentEmptyResultDegrades(t *testing.T) {
	cfg := config.Default()
	sc := scene.NewScene()
	importer := &fakeImporter{result: &loader.ImportResult{}}

	outcome, err := NewContent(sc, importer, newOverlay(cfg), cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Degraded, outcome)
	_, ok := sc.Hero()
	assert.False(t, ok)
}

func TestContentMissingUIElementsAreLogged(t *testing.T) {
	cfg := config.Default()
	sc := scene.NewScene()

	outcome, err := NewContent(sc, &fakeImporter{result: heroAsset()}, ui.NewOverlay(), cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Completed, outcome)

	outcome, err = NewContent(sc, &fakeImporter{result: heroAsset()}, nil, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Completed, outcome)
}

func TestDefaultStagesRunInOrder(t *testing.T) {
	cfg := config.Default()

	run := func(t *testing.T, provider xr.Provider, importer *fakeImporter) (scene.Scene, lifecycle.Driver, []lifecycle.State, ui.Overlay) {
		t.Helper()
		sc := scene.NewScene()
		overlay := newOverlay(cfg)
		var reached []lifecycle.State
		d := lifecycle.NewDriver(lifecycle.WithTransitionHook(func(from, to lifecycle.State) {
			reached = append(reached, to)
		}))
		err := d.Initialize(context.Background(), NewDefaultStages(sc, provider, importer, overlay, cfg)...)
		require.NoError(t, err)
		return sc, d, reached, overlay
	}

	t.Run("everything succeeds", func(t *testing.T) {
		importer := &fakeImporter{result: heroAsset()}
		sc, d, reached, overlay := run(t, xr.NewProvider(xr.WithRuntime(xr.NewEmulatedRuntime())), importer)

		assert.Equal(t, []lifecycle.State{lifecycle.BaseReady, lifecycle.XrReady, lifecycle.ContentReady}, reached)
		assert.Equal(t, lifecycle.ContentReady, d.State())
		_, ok := sc.XR()
		assert.True(t, ok)
		assertUITransitioned(t, overlay, cfg)
	})

	t.Run("xr failure still loads the hero", func(t *testing.T) {
		importer := &fakeImporter{result: heroAsset()}
		sc, d, _, _ := run(t, xr.NewProvider(), importer)

		assert.Equal(t, lifecycle.ContentReady, d.State())
		assert.Len(t, importer.calls, 1)
		_, ok := sc.XR()
		assert.False(t, ok)
		_, ok = sc.Hero()
		assert.True(t, ok)
	})

	t.Run("import failure settles at XrReady", func(t *testing.T) {
		importer := &fakeImporter{err: errors.New("parse error")}
		_, d, reached, overlay := run(t, xr.NewProvider(), importer)

		assert.Equal(t, []lifecycle.State{lifecycle.BaseReady, lifecycle.XrReady}, reached)
		assert.Equal(t, lifecycle.XrReady, d.State())
		assertUITransitioned(t, overlay, cfg)
	})
}
