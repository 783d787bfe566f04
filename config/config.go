package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the static configuration of the VR scene application.
type Config struct {
	Window      WindowConfig      `toml:"window"`
	Renderer    RendererConfig    `toml:"renderer"`
	Scene       SceneConfig       `toml:"scene"`
	Ground      GroundConfig      `toml:"ground"`
	Environment EnvironmentConfig `toml:"environment"`
	Light       LightConfig       `toml:"light"`
	Camera      CameraConfig      `toml:"camera"`
	Shadows     ShadowConfig      `toml:"shadows"`
	XR          XRConfig          `toml:"xr"`
	Hero        HeroConfig        `toml:"hero"`
	UI          UIConfig          `toml:"ui"`
	Loader      LoaderConfig      `toml:"loader"`
	Log         LogConfig         `toml:"log"`
}

// WindowConfig sizes the application window. A zero max leaves that axis unbounded.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
}

// RendererConfig selects rendering context flags.
type RendererConfig struct {
	VSync                 bool    `toml:"vsync"`
	MSAA                  bool    `toml:"msaa"`
	Stencil               bool    `toml:"stencil"`
	PreserveDrawingBuffer bool    `toml:"preserve_drawing_buffer"`
	ForceSoftware         bool    `toml:"force_software"`
	FrameLimit            float64 `toml:"frame_limit"`
	Profiling             bool    `toml:"profiling"`
}

// SceneConfig holds scene-wide settings.
type SceneConfig struct {
	Name       string     `toml:"name"`
	ClearColor [4]float64 `toml:"clear_color"`
}

// GroundConfig describes the ground plane and its material.
type GroundConfig struct {
	Name           string     `toml:"name"`
	Width          float32    `toml:"width"`
	Height         float32    `toml:"height"`
	Subdivisions   int        `toml:"subdivisions"`
	AlphaIndex     int        `toml:"alpha_index"`
	OpacityTexture string     `toml:"opacity_texture"`
	AlbedoTexture  string     `toml:"albedo_texture"`
	UVScale        float32    `toml:"uv_scale"`
	Roughness      float32    `toml:"roughness"`
	AlbedoColor    [4]float32 `toml:"albedo_color"`
}

// EnvironmentConfig describes image-based lighting.
type EnvironmentConfig struct {
	Texture   string  `toml:"texture"`
	Intensity float32 `toml:"intensity"`
}

// LightConfig describes the directional key light.
type LightConfig struct {
	Name      string     `toml:"name"`
	Direction [3]float32 `toml:"direction"`
	Position  [3]float32 `toml:"position"`
	Intensity float32    `toml:"intensity"`
}

// CameraConfig describes the arc-rotate camera.
type CameraConfig struct {
	Name             string     `toml:"name"`
	Alpha            float32    `toml:"alpha"`
	Beta             float32    `toml:"beta"`
	Radius           float32    `toml:"radius"`
	Target           [3]float32 `toml:"target"`
	Fov              float32    `toml:"fov"`
	MinZ             float32    `toml:"min_z"`
	MaxZ             float32    `toml:"max_z"`
	WheelPrecision   float32    `toml:"wheel_precision"`
	LowerRadiusLimit float32    `toml:"lower_radius_limit"`
	AttachControl    bool       `toml:"attach_control"`
}

// ShadowConfig toggles and tunes ground shadows.
type ShadowConfig struct {
	Enabled  bool    `toml:"enabled"`
	MapSize  int     `toml:"map_size"`
	Darkness float32 `toml:"darkness"`
}

// XRConfig toggles XR setup. Emulated installs a desktop session emulator.
type XRConfig struct {
	Enabled  bool `toml:"enabled"`
	Emulated bool `toml:"emulated"`
}

// HeroConfig locates the hero model.
type HeroConfig struct {
	URL string `toml:"url"`
}

// UIConfig names the overlay elements.
type UIConfig struct {
	LoadingScreenID    string `toml:"loading_screen_id"`
	LoadingScreenLabel string `toml:"loading_screen_label"`
	WelcomeScreenID    string `toml:"welcome_screen_id"`
	WelcomeScreenLabel string `toml:"welcome_screen_label"`
}

// LoaderConfig tunes asset import.
type LoaderConfig struct {
	OfflineSupport bool `toml:"offline_support"`
	Workers        int  `toml:"workers"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the demo scene configuration.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-vr",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 200,
		},
		Renderer: RendererConfig{
			VSync:                 true,
			MSAA:                  true,
			Stencil:               true,
			PreserveDrawingBuffer: true,
		},
		Scene: SceneConfig{
			Name:       "DemoScene",
			ClearColor: [4]float64{0, 0, 0, 1},
		},
		Ground: GroundConfig{
			Name:           "ground",
			Width:          20,
			Height:         20,
			Subdivisions:   1,
			AlphaIndex:     -1,
			OpacityTexture: "./assets/textures/ground-fade.png",
			AlbedoTexture:  "./assets/textures/grey-grid.png",
			UVScale:        12,
			Roughness:      1,
			AlbedoColor:    [4]float32{0.6, 0.6, 0.6, 1},
		},
		Environment: EnvironmentConfig{
			Texture:   "./assets/textures/environment.env",
			Intensity: 0.8,
		},
		Light: LightConfig{
			Name:      "light",
			Direction: [3]float32{-1, -2, -1},
			Position:  [3]float32{0, 4, 0},
			Intensity: 0.4,
		},
		Camera: CameraConfig{
			Name:             "camera",
			Alpha:            0.6,
			Beta:             0.7,
			Radius:           3,
			Target:           [3]float32{0, 0.6, -0.2},
			Fov:              0.8,
			MinZ:             0.001,
			MaxZ:             10000,
			WheelPrecision:   50,
			LowerRadiusLimit: 0.5,
			AttachControl:    true,
		},
		Shadows: ShadowConfig{
			Enabled:  true,
			MapSize:  1024,
			Darkness: 0.5,
		},
		XR: XRConfig{
			Enabled: true,
		},
		Hero: HeroConfig{
			URL: "./assets/models/Biplane.glb",
		},
		UI: UIConfig{
			LoadingScreenID:    "loadingScreen",
			LoadingScreenLabel: "Loading...",
			WelcomeScreenID:    "welcomeScreen",
			WelcomeScreenLabel: "Welcome",
		},
		Loader: LoaderConfig{
			OfflineSupport: false,
			Workers:        2,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Parse overlays TOML data onto the defaults and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: a decode error or ErrInvalid
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a TOML file and overlays it onto the defaults.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file does not exist.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the merged or default configuration
//   - error: a decode or validation error
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges that would make scene construction fail.
//
// Returns:
//   - error: ErrInvalid wrapped with the offending field, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.MinWidth < 0 || c.Window.MinHeight < 0 || c.Window.MaxWidth < 0 || c.Window.MaxHeight < 0:
		return fmt.Errorf("%w: negative window size limit", ErrInvalid)
	case c.Window.MaxWidth > 0 && c.Window.MaxWidth < c.Window.MinWidth,
		c.Window.MaxHeight > 0 && c.Window.MaxHeight < c.Window.MinHeight:
		return fmt.Errorf("%w: window max size below min size", ErrInvalid)
	case c.Ground.Width <= 0 || c.Ground.Height <= 0:
		return fmt.Errorf("%w: ground size %gx%g", ErrInvalid, c.Ground.Width, c.Ground.Height)
	case c.Ground.Subdivisions < 1:
		return fmt.Errorf("%w: ground subdivisions %d", ErrInvalid, c.Ground.Subdivisions)
	case c.Light.Direction == [3]float32{}:
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	case c.Camera.Radius <= 0:
		return fmt.Errorf("%w: camera radius %g", ErrInvalid, c.Camera.Radius)
	case c.Camera.MinZ <= 0 || c.Camera.MaxZ <= c.Camera.MinZ:
		return fmt.Errorf("%w: camera clip range [%g, %g]", ErrInvalid, c.Camera.MinZ, c.Camera.MaxZ)
	case c.Shadows.Enabled && c.Shadows.MapSize <= 0:
		return fmt.Errorf("%w: shadow map size %d", ErrInvalid, c.Shadows.MapSize)
	case c.Hero.URL == "":
		return fmt.Errorf("%w: hero url is empty", ErrInvalid)
	case c.UI.LoadingScreenID == "" || c.UI.WelcomeScreenID == "":
		return fmt.Errorf("%w: ui element ids must be set", ErrInvalid)
	case c.Loader.Workers < 1:
		return fmt.Errorf("%w: loader workers %d", ErrInvalid, c.Loader.Workers)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
