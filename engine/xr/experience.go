package xr

import (
	"context"
	"fmt"
	"sync"
)

// Experience is the default XR experience attached to a scene: a teleportation
// feature plus the ability to enter and leave an immersive session.
type Experience interface {
	// Teleportation returns the teleportation feature.
	Teleportation() Teleportation

	// EnterXR starts an immersive VR session. Entering while already in XR is a no-op.
	//
	// Parameters:
	//   - ctx: cancels the session request
	//
	// Returns:
	//   - error: an error if the runtime refused the session
	EnterXR(ctx context.Context) error

	// ExitXR ends the active session.
	//
	// Returns:
	//   - error: ErrNoSession if no session is active, or the runtime's error
	ExitXR() error

	// InXR reports whether a session is active.
	InXR() bool
}

type experience struct {
	mu sync.Mutex

	runtime       Runtime
	teleportation *teleportation
	session       Session
}

var _ Experience = &experience{}

func (e *experience) Teleportation() Teleportation {
	return e.teleportation
}

func (e *experience) EnterXR(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		return nil
	}
	s, err := e.runtime.RequestSession(ctx, SessionModeImmersiveVR)
	if err != nil {
		return fmt.Errorf("request %s session: %w", SessionModeImmersiveVR, err)
	}
	e.session = s
	return nil
}

func (e *experience) ExitXR() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoSession
	}
	s := e.session
	e.session = nil
	return s.End()
}

func (e *experience) InXR() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}
