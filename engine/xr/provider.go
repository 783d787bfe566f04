package xr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
)

// Options configures the default experience.
type Options struct {
	// FloorMeshes are registered as teleport destinations.
	FloorMeshes []mesh.Mesh
}

// provider is the implementation of the Provider interface.
type provider struct {
	runtime Runtime
	logger  *slog.Logger
}

// Provider creates XR experiences on top of the platform Runtime.
type Provider interface {
	// CreateDefaultExperience checks the runtime for immersive VR support and returns an
	// experience with teleportation onto opts.FloorMeshes. No session is started.
	//
	// Parameters:
	//   - ctx: cancels the support query
	//   - opts: experience options
	//
	// Returns:
	//   - Experience: the created experience
	//   - error: ErrUnsupported when there is no runtime or it cannot host immersive VR
	CreateDefaultExperience(ctx context.Context, opts Options) (Experience, error)
}

var _ Provider = &provider{}

// NewProvider creates a new Provider. Without WithRuntime every experience request
// fails with ErrUnsupported.
//
// Parameters:
//   - options: functional options to configure the provider
//
// Returns:
//   - Provider: the newly created provider
func NewProvider(options ...ProviderBuilderOption) Provider {
	p := &provider{
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *provider) CreateDefaultExperience(ctx context.Context, opts Options) (Experience, error) {
	if p.runtime == nil {
		return nil, ErrUnsupported
	}
	supported, err := p.runtime.IsSessionSupported(ctx, SessionModeImmersiveVR)
	if err != nil {
		return nil, fmt.Errorf("query %s support: %w", SessionModeImmersiveVR, err)
	}
	if !supported {
		return nil, ErrUnsupported
	}

	t := &teleportation{}
	for _, m := range opts.FloorMeshes {
		t.AddFloorMesh(m)
	}
	p.logger.Debug("xr experience created", "floorMeshes", len(t.FloorMeshes()))
	return &experience{runtime: p.runtime, teleportation: t}, nil
}
