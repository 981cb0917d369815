package kinematic

// This package includes the kinematic equations and the small amount of
// vector and rotation math used by character movement.
//
// Axes follow the usual game convention: +Y is up, +Z is forward and +X is
// right. Angles at the API boundary are in degrees.

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Up is the world up axis.
	Up = mgl64.Vec3{0, 1, 0}
	// Forward is the local forward axis of an unrotated body.
	Forward = mgl64.Vec3{0, 0, 1}
	// Right is the local right axis of an unrotated body.
	Right = mgl64.Vec3{1, 0, 0}
)

// Displacement returns the displacement of an object given its initial velocity, time, and acceleration.
func Displacement(initialVelocity float64, time float64, acceleration float64) float64 {
	return initialVelocity*time + 0.5*acceleration*math.Pow(time, 2)
}

// FinalVelocity returns the final velocity of an object given its initial velocity, time, and acceleration.
func FinalVelocity(initialVelocity float64, time float64, acceleration float64) float64 {
	return initialVelocity + acceleration*time
}

// Lerp interpolates between a and b. t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	return a + (b-a)*t
}

// LerpVec3 interpolates component-wise between a and b. t is clamped to [0, 1].
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Lerp(a[0], b[0], t),
		Lerp(a[1], b[1], t),
		Lerp(a[2], b[2], t),
	}
}

// Yaw returns a rotation of degrees about the world up axis.
func Yaw(degrees float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(degrees), Up)
}

// Pitch returns a rotation of degrees about the local right axis.
// Positive pitch tilts the view downward.
func Pitch(degrees float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(degrees), Right)
}

// Basis returns the forward and right vectors of a rotation.
func Basis(rotation mgl64.Quat) (forward, right mgl64.Vec3) {
	return rotation.Rotate(Forward), rotation.Rotate(Right)
}

// Heading returns the yaw, in degrees within (-180, 180], of the forward vector of rotation.
func Heading(rotation mgl64.Quat) float64 {
	forward := rotation.Rotate(Forward)
	return mgl64.RadToDeg(math.Atan2(forward.X(), forward.Z()))
}

// Horizontal returns v with its vertical component removed.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}
