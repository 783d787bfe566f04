package camera

import (
	"errors"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidRadius is returned when a camera is created with a non-positive radius.
var ErrInvalidRadius = errors.New("camera radius must be positive")

// clipDepthCorrection remaps OpenGL-style clip depth [-1, 1] to the [0, 1]
// range expected by WebGPU.
var clipDepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// arcRotateCamera is the implementation of the ArcRotateCamera interface.
type arcRotateCamera struct {
	mu *sync.Mutex

	name string

	// Spherical coordinates around target
	alpha  float32
	beta   float32
	radius float32
	target mgl32.Vec3
	up     mgl32.Vec3

	// Projection
	fov    float32
	aspect float32
	minZ   float32
	maxZ   float32

	// Constraints
	lowerRadiusLimit float32
	upperRadiusLimit float32
	lowerBetaLimit   float32
	upperBetaLimit   float32

	// Input sensitivity
	wheelPrecision     float32
	angularSensibility float32
	panningSensibility float32
	keyboardStep       float32

	input InputSource
}

// ArcRotateCamera orbits a target point. Its eye position is derived from the
// longitudinal angle alpha, the latitudinal angle beta and the radius, so every
// control gesture is a change to one of those three values or to the target.
type ArcRotateCamera interface {
	// Name returns the camera identifier.
	Name() string

	// Alpha returns the longitudinal angle in radians.
	Alpha() float32

	// Beta returns the latitudinal angle in radians, measured from +Y.
	Beta() float32

	// Radius returns the distance from the target.
	Radius() float32

	// Target returns the orbit pivot.
	Target() mgl32.Vec3

	// SetTarget moves the orbit pivot, keeping the spherical coordinates.
	//
	// Parameters:
	//   - t: the new pivot
	SetTarget(t mgl32.Vec3)

	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the viewport aspect ratio.
	Aspect() float32

	// SetAspect sets the viewport aspect ratio. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width divided by height
	SetAspect(aspect float32)

	// MinZ returns the near clip distance.
	MinZ() float32

	// MaxZ returns the far clip distance.
	MaxZ() float32

	// WheelPrecision returns the wheel divisor; larger values zoom more slowly.
	WheelPrecision() float32

	// LowerRadiusLimit returns the closest allowed distance to the target.
	LowerRadiusLimit() float32

	// UpperRadiusLimit returns the farthest allowed distance, or 0 when unbounded.
	UpperRadiusLimit() float32

	// Orbit rotates the camera by the given pointer movement in pixels.
	//
	// Parameters:
	//   - dx, dy: pointer delta in pixels
	Orbit(dx, dy float32)

	// Zoom moves the camera toward (positive) or away from (negative) the target
	// by the given number of wheel notches, honouring the radius limits.
	//
	// Parameters:
	//   - notches: scroll delta
	Zoom(notches float32)

	// Pan translates the target along the camera's right and up axes by the given
	// pointer movement in pixels.
	//
	// Parameters:
	//   - dx, dy: pointer delta in pixels
	Pan(dx, dy float32)

	// ViewMatrix returns the world-to-view transform.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip transform with WebGPU depth range.
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix() * ViewMatrix().
	ViewProjectionMatrix() mgl32.Mat4

	// AttachControl routes pointer, wheel and arrow-key input from src to the camera.
	// Left drag orbits, right drag pans, the wheel zooms and the arrow keys orbit.
	//
	// Parameters:
	//   - src: the input source, typically the window
	AttachControl(src InputSource)

	// DetachControl stops routing input to the camera.
	DetachControl()

	// Attached reports whether input is currently routed to the camera.
	Attached() bool
}

var _ ArcRotateCamera = &arcRotateCamera{}

// NewArcRotateCamera creates a new ArcRotateCamera.
//
// Parameters:
//   - name: the camera identifier
//   - alpha: longitudinal angle in radians
//   - beta: latitudinal angle in radians
//   - radius: distance from target, must be positive
//   - target: the orbit pivot
//   - options: functional options to configure the camera
//
// Returns:
//   - ArcRotateCamera: the newly created camera
//   - error: ErrInvalidRadius if radius is not positive
func NewArcRotateCamera(name string, alpha, beta, radius float32, target mgl32.Vec3, options ...CameraBuilderOption) (ArcRotateCamera, error) {
	if radius <= 0 {
		return nil, ErrInvalidRadius
	}
	c := &arcRotateCamera{
		mu:                 &sync.Mutex{},
		name:               name,
		alpha:              alpha,
		beta:               beta,
		radius:             radius,
		target:             target,
		up:                 mgl32.Vec3{0, 1, 0},
		fov:                0.8,
		aspect:             16.0 / 9.0,
		minZ:               1,
		maxZ:               10000,
		lowerBetaLimit:     0.01,
		upperBetaLimit:     math.Pi - 0.01,
		wheelPrecision:     3,
		angularSensibility: 1000,
		panningSensibility: 1000,
		keyboardStep:       0.05,
	}
	for _, opt := range options {
		opt(c)
	}
	c.constrain()
	return c, nil
}

func (c *arcRotateCamera) Name() string {
	return c.name
}

func (c *arcRotateCamera) Alpha() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alpha
}

func (c *arcRotateCamera) Beta() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beta
}

func (c *arcRotateCamera) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *arcRotateCamera) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *arcRotateCamera) SetTarget(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

func (c *arcRotateCamera) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.OrbitPosition(c.target, c.alpha, c.beta, c.radius)
}

func (c *arcRotateCamera) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *arcRotateCamera) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *arcRotateCamera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *arcRotateCamera) MinZ() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minZ
}

func (c *arcRotateCamera) MaxZ() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxZ
}

func (c *arcRotateCamera) WheelPrecision() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wheelPrecision
}

func (c *arcRotateCamera) LowerRadiusLimit() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lowerRadiusLimit
}

func (c *arcRotateCamera) UpperRadiusLimit() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upperRadiusLimit
}

// Orbit turns the camera one radian per angularSensibility/5 pixels of drag.
func (c *arcRotateCamera) Orbit(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	scale := 5 / c.angularSensibility
	c.alpha -= dx * scale
	c.beta -= dy * scale
	c.constrain()
}

func (c *arcRotateCamera) Zoom(notches float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// One wheel notch reports 120 units in browsers; glfw reports 1.
	c.radius -= notches * 120 / (c.wheelPrecision * 40)
	c.constrain()
}

func (c *arcRotateCamera) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	eye := common.OrbitPosition(c.target, c.alpha, c.beta, c.radius)
	forward := c.target.Sub(eye)
	if forward.Len() == 0 {
		return
	}
	forward = forward.Normalize()
	right := forward.Cross(c.up)
	if right.Len() == 0 {
		return
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()

	scale := c.radius / c.panningSensibility
	c.target = c.target.Sub(right.Mul(dx * scale)).Add(up.Mul(dy * scale))
}

func (c *arcRotateCamera) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	eye := common.OrbitPosition(c.target, c.alpha, c.beta, c.radius)
	return mgl32.LookAtV(eye, c.target, c.up)
}

func (c *arcRotateCamera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clipDepthCorrection.Mul4(mgl32.Perspective(c.fov, c.aspect, c.minZ, c.maxZ))
}

func (c *arcRotateCamera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// constrain clamps beta and radius into their limits. Caller must hold the mutex.
func (c *arcRotateCamera) constrain() {
	c.beta = common.Clamp(c.beta, c.lowerBetaLimit, c.upperBetaLimit)
	lower := max(c.lowerRadiusLimit, 1e-4)
	c.radius = common.Clamp(c.radius, lower, c.upperRadiusLimit)
}
