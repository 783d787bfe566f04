package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct {
	scroll func(delta float32)
	drag   func(button int, dx, dy float32)
	key    func(keyCode uint32)
}

func (f *fakeInput) SetScrollCallback(cb func(delta float32)) { f.scroll = cb }
func (f *fakeInput) SetPointerDragCallback(cb func(button int, dx, dy float32)) { f.drag = cb }
func (f *fakeInput) SetKeyDownCallback(cb func(keyCode uint32)) { f.key = cb }

func newSceneCamera(t *testing.T) ArcRotateCamera {
	t.Helper()
	c, err := NewArcRotateCamera("Camera", 0.6, 0.7, 3, mgl32.Vec3{0, 0.6, -0.2},
		WithMinZ(0.001), WithWheelPrecision(50), WithRadiusLimits(0.5, 0))
	require.NoError(t, err)
	return c
}

func TestNewArcRotateCamera(t *testing.T) {
	c := newSceneCamera(t)
	assert.Equal(t, "Camera", c.Name())
	assert.InDelta(t, 0.6, c.Alpha(), 1e-6)
	assert.InDelta(t, 0.7, c.Beta(), 1e-6)
	assert.InDelta(t, 3, c.Radius(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0.6, -0.2}, c.Target())
	assert.InDelta(t, 0.001, c.MinZ(), 1e-9)
	assert.InDelta(t, 50, c.WheelPrecision(), 1e-6)
	assert.InDelta(t, 0.5, c.LowerRadiusLimit(), 1e-6)
	assert.Zero(t, c.UpperRadiusLimit())

	_, err := NewArcRotateCamera("bad", 0, 1, 0, mgl32.Vec3{})
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestPositionIsRadiusAwayFromTarget(t *testing.T) {
	c := newSceneCamera(t)
	pos := c.Position()
	assert.InDelta(t, 3, pos.Sub(c.Target()).Len(), 1e-5)
	assert.Equal(t, common.OrbitPosition(c.Target(), 0.6, 0.7, 3), pos)
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := newSceneCamera(t)
	target := c.Target()
	v := c.ViewMatrix().Mul4x1(target.Vec4(1))
	// The target sits on the view axis in front of the eye.
	assert.InDelta(t, 0, v.X(), 1e-5)
	assert.InDelta(t, 0, v.Y(), 1e-5)
	assert.InDelta(t, -3, v.Z(), 1e-5)
}

func TestProjectionDepthRange(t *testing.T) {
	c, err := NewArcRotateCamera("c", 0, math.Pi/2, 5, mgl32.Vec3{}, WithMinZ(1), WithMaxZ(100))
	require.NoError(t, err)
	p := c.ProjectionMatrix()

	near := p.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestZoomHonoursRadiusLimits(t *testing.T) {
	c := newSceneCamera(t)

	c.Zoom(1)
	assert.InDelta(t, 3-120.0/(50*40), c.Radius(), 1e-5)

	for range 1000 {
		c.Zoom(10)
	}
	assert.InDelta(t, 0.5, c.Radius(), 1e-6)

	for range 1000 {
		c.Zoom(-10)
	}
	assert.Greater(t, c.Radius(), float32(100))
}

func TestUpperRadiusLimit(t *testing.T) {
	c, err := NewArcRotateCamera("c", 0, 1, 3, mgl32.Vec3{}, WithRadiusLimits(1, 4))
	require.NoError(t, err)
	c.Zoom(-1000)
	assert.InDelta(t, 4, c.Radius(), 1e-6)
}

func TestOrbitClampsBeta(t *testing.T) {
	c := newSceneCamera(t)
	c.Orbit(100, 0)
	assert.InDelta(t, 0.6-0.5, c.Alpha(), 1e-5)

	c.Orbit(0, 100000)
	assert.InDelta(t, 0.01, c.Beta(), 1e-6)
	c.Orbit(0, -100000)
	assert.InDelta(t, math.Pi-0.01, c.Beta(), 1e-5)
}

func TestPanMovesTarget(t *testing.T) {
	c := newSceneCamera(t)
	before := c.Target()
	radius := c.Radius()
	c.Pan(100, 0)
	after := c.Target()
	assert.NotEqual(t, before, after)
	assert.InDelta(t, radius*100/1000, after.Sub(before).Len(), 1e-4)
	assert.InDelta(t, radius, c.Radius(), 1e-6)
}

func TestAttachControl(t *testing.T) {
	c := newSceneCamera(t)
	in := &fakeInput{}

	assert.False(t, c.Attached())
	c.AttachControl(in)
	require.True(t, c.Attached())
	require.NotNil(t, in.scroll)
	require.NotNil(t, in.drag)
	require.NotNil(t, in.key)

	in.scroll(1)
	assert.Less(t, c.Radius(), float32(3))

	alpha := c.Alpha()
	in.drag(common.MouseButtonLeft, 200, 0)
	assert.Less(t, c.Alpha(), alpha)

	target := c.Target()
	in.drag(common.MouseButtonRight, 50, 50)
	assert.NotEqual(t, target, c.Target())

	alpha = c.Alpha()
	in.key(common.KeyRight)
	assert.Greater(t, c.Alpha(), alpha)

	c.DetachControl()
	assert.False(t, c.Attached())
	assert.Nil(t, in.scroll)
	assert.Nil(t, in.drag)
	assert.Nil(t, in.key)
}
