package app

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
)

// keyRouter sits between the window and the camera so the application can claim
// keys the camera controls never see. The window holds a single key-down callback.
type keyRouter struct {
	camera.InputSource

	mu       sync.Mutex
	fallback func(keyCode uint32)
	bindings map[uint32]func()
}

// newKeyRouter installs the router as src's key-down handler.
func newKeyRouter(src camera.InputSource) *keyRouter {
	r := &keyRouter{InputSource: src, bindings: make(map[uint32]func())}
	src.SetKeyDownCallback(r.keyDown)
	return r
}

// SetKeyDownCallback receives keys not bound on the router.
func (r *keyRouter) SetKeyDownCallback(callback func(keyCode uint32)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = callback
}

func (r *keyRouter) bind(keyCode uint32, action func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[keyCode] = action
}

func (r *keyRouter) keyDown(keyCode uint32) {
	r.mu.Lock()
	action, bound := r.bindings[keyCode]
	fallback := r.fallback
	r.mu.Unlock()

	if bound {
		action()
		return
	}
	if fallback != nil {
		fallback(keyCode)
	}
}

// toggleXR enters the immersive session, or leaves it when one is active.
// Does nothing until the XR stage has attached an experience.
func (a *application) toggleXR() {
	exp, ok := a.scene.XR()
	if !ok {
		a.logger.Info("xr toggle ignored, no experience attached")
		return
	}

	if exp.InXR() {
		if err := exp.ExitXR(); err != nil {
			a.logger.Warn("exit xr failed", "error", err)
		}
	} else {
		if err := exp.EnterXR(a.runContext()); err != nil {
			a.logger.Warn("enter xr failed", "error", err)
		}
	}
	a.logger.Info("xr session toggled", "inXR", exp.InXR())
	a.mirrorTitle()
}

// runContext returns the context of the active Run, or a background context before Run.
func (a *application) runContext() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runCtx == nil {
		return context.Background()
	}
	return a.runCtx
}
