package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Unit axes, used for the single-axis rotations the platform animations are built from.
var (
	XAxis = r3.Vector{X: 1}
	YAxis = r3.Vector{Y: 1}
	ZAxis = r3.Vector{Z: 1}
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D Euclidean space.
// The Tait–Bryan angle formalism is used, with rotations around three distinct axes in the z-y′-x″ sequence.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // phi
	Pitch float64 `json:"pitch"` // theta
	Yaw   float64 `json:"yaw"`   // psi
}

// OrientationAlmostEqual will return a bool describing whether 2 orientations are approximately the same.
func OrientationAlmostEqual(o1, o2 Quaternion) bool {
	return QuaternionAlmostEqual(o1.Quat(), o2.Quat(), 1e-5)
}

// QuaternionAlmostEqual is an equality test for quaternions. Since q and -q describe the same
// rotation both signs are accepted.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	same := func(a, b quat.Number) bool {
		return math.Abs(a.Real-b.Real) < tol &&
			math.Abs(a.Imag-b.Imag) < tol &&
			math.Abs(a.Jmag-b.Jmag) < tol &&
			math.Abs(a.Kmag-b.Kmag) < tol
	}
	return same(a, b) || same(a, quat.Scale(-1, b))
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// Pose is a translation and orientation of the moving plate relative to its neutral placement.
type Pose struct {
	Translation r3.Vector
	Orientation Quaternion
}

// NewZeroPose returns the neutral pose.
func NewZeroPose() Pose {
	return Pose{Orientation: NewZeroOrientation()}
}

// NewPose returns a pose with a normalized orientation.
func NewPose(translation r3.Vector, orientation Quaternion) Pose {
	return Pose{Translation: translation, Orientation: orientation.Normalize()}
}

// PoseAlmostEqual reports whether two poses agree to within 1e-8 mm and the default orientation tolerance.
func PoseAlmostEqual(a, b Pose) bool {
	return R3VectorAlmostEqual(a.Translation, b.Translation, 1e-8) && OrientationAlmostEqual(a.Orientation, b.Orientation)
}

// Interpolate returns a function moving linearly from a's translation to b's and along the
// shortest arc from a's orientation to b's.
func Interpolate(a, b Pose) func(by float64) Pose {
	tw := a.Orientation.Slerp(b.Orientation)
	return func(by float64) Pose {
		return Pose{
			Translation: a.Translation.Add(b.Translation.Sub(a.Translation).Mul(by)),
			Orientation: tw(by),
		}
	}
}
