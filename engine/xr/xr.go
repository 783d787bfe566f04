package xr

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when no runtime is present or the runtime cannot
// host an immersive VR session.
var ErrUnsupported = errors.New("immersive VR is not supported")

// ErrNoSession is returned when exiting XR while no session is active.
var ErrNoSession = errors.New("no active XR session")

// SessionMode names the kind of XR session requested from a Runtime.
type SessionMode string

const (
	// SessionModeImmersiveVR is a fully immersive head-mounted session.
	SessionModeImmersiveVR SessionMode = "immersive-vr"
)

// Runtime is the platform XR service. A nil Runtime means the platform has none.
type Runtime interface {
	// IsSessionSupported reports whether sessions of the given mode can be started.
	//
	// Parameters:
	//   - ctx: cancels the query
	//   - mode: the session mode to check
	//
	// Returns:
	//   - bool: true if the mode is supported
	//   - error: an error if the runtime could not be queried
	IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error)

	// RequestSession starts a session of the given mode.
	//
	// Parameters:
	//   - ctx: cancels the request
	//   - mode: the session mode to start
	//
	// Returns:
	//   - Session: the started session
	//   - error: an error if the session could not be started
	RequestSession(ctx context.Context, mode SessionMode) (Session, error)
}

// Session is a running XR session.
type Session interface {
	// Mode returns the mode the session was started with.
	Mode() SessionMode

	// End stops the session. Ending an ended session is a no-op.
	End() error
}
