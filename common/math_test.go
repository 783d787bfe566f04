package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitPosition(t *testing.T) {
	target := mgl32.Vec3{1, 2, 3}

	// beta = 0 puts the eye straight above the target.
	top := OrbitPosition(target, 0.6, 0, 5)
	assert.InDelta(t, 1, top[0], 1e-5)
	assert.InDelta(t, 7, top[1], 1e-5)
	assert.InDelta(t, 3, top[2], 1e-5)

	// alpha = 0, beta = pi/2 lies on the +X side of the target.
	side := OrbitPosition(target, 0, math.Pi/2, 5)
	assert.InDelta(t, 6, side[0], 1e-5)
	assert.InDelta(t, 2, side[1], 1e-5)
	assert.InDelta(t, 3, side[2], 1e-5)

	// The eye is always radius away from the target.
	eye := OrbitPosition(target, 0.6, 0.7, 3)
	assert.InDelta(t, 3, eye.Sub(target).Len(), 1e-5)
}

func TestDecomposeTRS(t *testing.T) {
	tr := mgl32.Vec3{4, -1, 2}
	rot := mgl32.QuatRotate(float32(math.Pi/3), mgl32.Vec3{0, 1, 0})
	sc := mgl32.Vec3{2, 3, 0.5}

	gotT, gotR, gotS := DecomposeTRS(ComposeTRS(tr, rot, sc))

	assert.True(t, gotT.ApproxEqualThreshold(tr, 1e-5))
	assert.True(t, gotS.ApproxEqualThreshold(sc, 1e-5))
	assert.True(t, gotR.ApproxEqualThreshold(rot, 1e-4) || gotR.ApproxEqualThreshold(rot.Scale(-1), 1e-4))
}

func TestDecomposeTRSZeroScale(t *testing.T) {
	_, r, s := DecomposeTRS(mgl32.Scale3D(0, 1, 1))
	assert.Equal(t, float32(0), s[0])
	assert.Equal(t, mgl32.QuatIdent(), r)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0.5), Clamp(0.1, 0.5, 10))
	assert.Equal(t, float32(10), Clamp(20, 0.5, 10))
	assert.Equal(t, float32(20), Clamp(20, 0.5, 0))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
