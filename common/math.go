package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// OrbitPosition computes the world-space eye position of an arc-rotate camera.
// Alpha is the longitudinal rotation around the Y axis and beta the latitudinal
// rotation measured from the +Y axis, both in radians.
//
// Parameters:
//   - target: the point the camera orbits
//   - alpha: longitudinal angle in radians
//   - beta: latitudinal angle in radians
//   - radius: distance from the target
//
// Returns:
//   - mgl32.Vec3: the eye position
func OrbitPosition(target mgl32.Vec3, alpha, beta, radius float32) mgl32.Vec3 {
	sinBeta := float32(math.Sin(float64(beta)))
	cosBeta := float32(math.Cos(float64(beta)))
	sinAlpha := float32(math.Sin(float64(alpha)))
	cosAlpha := float32(math.Cos(float64(alpha)))

	return mgl32.Vec3{
		target[0] + radius*cosAlpha*sinBeta,
		target[1] + radius*cosBeta,
		target[2] + radius*sinAlpha*sinBeta,
	}
}

// ComposeTRS builds a column-major model matrix from translation, rotation and scale.
// The result applies scale first, then rotation, then translation.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// DecomposeTRS splits an affine column-major matrix into translation, rotation and scale.
// Shear is discarded. Zero-length basis columns yield a zero scale on that axis and
// an identity rotation.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := mgl32.Vec3{m[12], m[13], m[14]}
	s := mgl32.Vec3{
		mgl32.Vec3{m[0], m[1], m[2]}.Len(),
		mgl32.Vec3{m[4], m[5], m[6]}.Len(),
		mgl32.Vec3{m[8], m[9], m[10]}.Len(),
	}
	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return t, mgl32.QuatIdent(), s
	}

	rot := mgl32.Ident4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			rot[col*4+row] = m[col*4+row] / s[col]
		}
	}
	return t, mgl32.Mat4ToQuat(rot), s
}
