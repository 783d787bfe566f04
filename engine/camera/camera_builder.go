package camera

// CameraBuilderOption is a functional option for configuring an ArcRotateCamera.
type CameraBuilderOption func(*arcRotateCamera)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if fov > 0 {
			c.fov = fov
		}
	}
}

// WithAspect sets the initial viewport aspect ratio.
//
// Parameters:
//   - aspect: width divided by height
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithMinZ sets the near clip distance.
//
// Parameters:
//   - minZ: near plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithMinZ(minZ float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if minZ > 0 {
			c.minZ = minZ
		}
	}
}

// WithMaxZ sets the far clip distance.
//
// Parameters:
//   - maxZ: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithMaxZ(maxZ float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if maxZ > 0 {
			c.maxZ = maxZ
		}
	}
}

// WithWheelPrecision sets the wheel divisor. Larger values zoom more slowly.
//
// Parameters:
//   - precision: wheel divisor (must be positive)
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithWheelPrecision(precision float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if precision > 0 {
			c.wheelPrecision = precision
		}
	}
}

// WithRadiusLimits bounds the orbit radius. An upper limit of 0 leaves the radius unbounded.
//
// Parameters:
//   - lower: closest allowed distance
//   - upper: farthest allowed distance, or 0
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithRadiusLimits(lower, upper float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		c.lowerRadiusLimit = max(lower, 0)
		c.upperRadiusLimit = max(upper, 0)
	}
}

// WithBetaLimits bounds the latitudinal angle.
//
// Parameters:
//   - lower: smallest beta in radians
//   - upper: largest beta in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithBetaLimits(lower, upper float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if lower < upper {
			c.lowerBetaLimit = lower
			c.upperBetaLimit = upper
		}
	}
}

// WithAngularSensibility sets how many pixels of drag are needed to rotate.
// Larger values rotate more slowly.
//
// Parameters:
//   - sensibility: angular divisor (must be positive)
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAngularSensibility(sensibility float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if sensibility > 0 {
			c.angularSensibility = sensibility
		}
	}
}

// WithPanningSensibility sets how many pixels of drag move the target by one radius.
//
// Parameters:
//   - sensibility: panning divisor (must be positive)
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPanningSensibility(sensibility float32) CameraBuilderOption {
	return func(c *arcRotateCamera) {
		if sensibility > 0 {
			c.panningSensibility = sensibility
		}
	}
}
