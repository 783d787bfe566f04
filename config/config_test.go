package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSceneConstants(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, [4]float64{0, 0, 0, 1}, cfg.Scene.ClearColor)
	assert.Equal(t, float32(20), cfg.Ground.Width)
	assert.Equal(t, -1, cfg.Ground.AlphaIndex)
	assert.Equal(t, float32(12), cfg.Ground.UVScale)
	assert.Equal(t, float32(0.8), cfg.Environment.Intensity)
	assert.Equal(t, [3]float32{-1, -2, -1}, cfg.Light.Direction)
	assert.Equal(t, float32(0.4), cfg.Light.Intensity)
	assert.Equal(t, [3]float32{0, 0.6, -0.2}, cfg.Camera.Target)
	assert.Equal(t, float32(50), cfg.Camera.WheelPrecision)
	assert.Equal(t, 1024, cfg.Shadows.MapSize)
	assert.Equal(t, "./assets/models/Biplane.glb", cfg.Hero.URL)
	assert.Equal(t, "loadingScreen", cfg.UI.LoadingScreenID)
	assert.Equal(t, "welcomeScreen", cfg.UI.WelcomeScreenID)
	assert.False(t, cfg.Loader.OfflineSupport)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "hangar"
min_width = 640
max_width = 1920
max_height = 1080

[shadows]
enabled = false

[hero]
url = "https://models.example.com/plane.glb"

[log]
level = "DEBUG"
`))
	require.NoError(t, err)

	assert.Equal(t, "hangar", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 640, cfg.Window.MinWidth)
	assert.Equal(t, 200, cfg.Window.MinHeight)
	assert.Equal(t, 1920, cfg.Window.MaxWidth)
	assert.Equal(t, 1080, cfg.Window.MaxHeight)
	assert.False(t, cfg.Shadows.Enabled)
	assert.Equal(t, "https://models.example.com/plane.glb", cfg.Hero.URL)
	assert.Equal(t, float32(3), cfg.Camera.Radius)

	lvl, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "[window]\ncolour = 3\n",
		"syntax":        "[window\n",
		"wrong type":    "[window]\nwidth = \"wide\"\n",
		"zero radius":   "[camera]\nradius = 0\n",
		"max below min": "[window]\nmin_width = 800\nmax_width = 640\n",
		"negative min":  "[window]\nmin_height = -1\n",
		"empty hero":    "[hero]\nurl = \"\"\n",
		"zero light":    "[light]\ndirection = [0.0, 0.0, 0.0]\n",
		"bad loglevel":  "[log]\nlevel = \"loud\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("[ground]\nsubdivisions = 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadAndLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[xr]\nemulated = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.XR.Emulated)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err = LoadOrDefault(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
