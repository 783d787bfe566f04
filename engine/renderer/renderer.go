package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/engine/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrReleased is returned when rendering with a Renderer that has been released.
var ErrReleased = errors.New("renderer has been released")

// SurfaceSource provides the platform surface a Renderer presents to.
// engine/window.Window satisfies it.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform-specific descriptor for WebGPU surface creation.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	config      backendConfig
	released    bool
	logger      *slog.Logger

	// textures records every texture key seen: true once uploaded, false if it failed.
	textures map[string]bool
}

// Renderer draws Frames to an output surface.
//
// The Renderer owns the GPU device, the configured surface and every buffer it
// uploads. Geometry is uploaded the first time a Draw key is seen and reused on
// later frames. Material textures are decoded and uploaded the first time a draw
// references them; a texture that fails to load is logged once and sampled as white.
type Renderer interface {
	// Resize reconfigures the surface and depth buffer for a new framebuffer size.
	// Zero or negative sizes are ignored, which happens while a window is minimised.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Render clears the colour target to the frame clear colour, issues every draw in
	// order and presents the result.
	//
	// Parameters:
	//   - frame: the snapshot to draw
	//
	// Returns:
	//   - error: an error if the swapchain image could not be acquired or a buffer could not be created
	Render(frame Frame) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees every GPU resource. Render returns ErrReleased afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type presenting to the given surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the surface source, typically the application window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		config: backendConfig{
			presentMode: PresentModeVSync,
			sampleCount: MSAA4x,
		},
		logger:   slog.Default(),
		textures: make(map[string]bool),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.config)
		if err != nil {
			return nil, fmt.Errorf("create wgpu backend: %w", err)
		}
		r.backend = b
	}

	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	if err := r.backend.RegisterScenePipeline(); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("register scene pipeline: %w", err)
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		r.logger.Error("surface reconfigure failed", "width", width, "height", height, "error", err)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Render(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}

	draws := make([]Draw, 0, len(frame.Draws))
	for _, d := range frame.Draws {
		if len(d.Indices) == 0 || len(d.Vertices) == 0 {
			continue
		}
		textures := DrawTextures{
			Albedo:  r.textureKey(d.AlbedoTexture),
			Opacity: r.textureKey(d.OpacityTexture),
		}
		if err := r.backend.PrepareDraw(d.Key, d.Vertices, d.Indices, encodeUniforms(frame, d), textures); err != nil {
			return fmt.Errorf("prepare draw %q: %w", d.Key, err)
		}
		draws = append(draws, d)
	}

	if err := r.backend.BeginFrame(frame.ClearColor); err != nil {
		return err
	}
	for _, d := range draws {
		r.backend.DrawCall(d.Key)
	}
	if err := r.backend.EndFrame(); err != nil {
		return err
	}
	r.backend.Present()
	return nil
}

// textureKey uploads tex on first use and returns its cache key, or "" to sample white.
// Caller must hold the mutex.
func (r *renderer) textureKey(tex *material.Texture) string {
	if tex == nil || tex.Path == "" {
		return ""
	}
	if r.textures == nil {
		r.textures = make(map[string]bool)
	}
	if ok, seen := r.textures[tex.Path]; seen {
		if ok {
			return tex.Path
		}
		return ""
	}

	pixels, width, height, err := tex.Decode()
	if err == nil {
		err = r.backend.UploadTexture(tex.Path, pixels, width, height)
	}
	if err != nil {
		r.textures[tex.Path] = false
		r.logger.Warn("texture unavailable", "path", tex.Path, "error", err)
		return ""
	}
	r.textures[tex.Path] = true
	r.logger.Debug("texture uploaded", "path", tex.Path, "width", width, "height", height)
	return tex.Path
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
}
