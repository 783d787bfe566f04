package xr

import (
	"context"
	"sync/atomic"
)

// emulatedRuntime reports immersive VR as supported and hands out sessions that
// only track whether they have ended. It lets desktop builds run the XR path.
type emulatedRuntime struct{}

// NewEmulatedRuntime returns a Runtime that supports immersive VR without a headset.
//
// Returns:
//   - Runtime: the emulated runtime
func NewEmulatedRuntime() Runtime {
	return emulatedRuntime{}
}

func (emulatedRuntime) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return mode == SessionModeImmersiveVR, nil
}

func (emulatedRuntime) RequestSession(ctx context.Context, mode SessionMode) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mode != SessionModeImmersiveVR {
		return nil, ErrUnsupported
	}
	return &emulatedSession{mode: mode}, nil
}

type emulatedSession struct {
	mode  SessionMode
	ended atomic.Bool
}

func (s *emulatedSession) Mode() SessionMode {
	return s.mode
}

func (s *emulatedSession) End() error {
	s.ended.Store(true)
	return nil
}
