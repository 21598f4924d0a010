// Package spatialmath defines the rotation math the platform and trajectory code build on.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

const (
	// Below this dot product distance two rotations are close enough that slerp degenerates
	// into a normalized lerp.
	slerpLinearThreshold = 0.9995
)

// Quaternion is a unit quaternion describing an orientation. Every constructor and every
// composition renormalizes, so drift from repeated multiplication never accumulates.
type Quaternion quat.Number

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() Quaternion {
	return Quaternion{Real: 1}
}

// NewQuaternion returns the normalized quaternion w + xi + yj + zk. A zero quaternion
// becomes the identity.
func NewQuaternion(w, x, y, z float64) Quaternion {
	return Quaternion{Real: w, Imag: x, Jmag: y, Kmag: z}.Normalize()
}

// FromAxisAngle returns the rotation of theta radians about axis. A zero axis yields the identity.
func FromAxisAngle(axis r3.Vector, theta float64) Quaternion {
	aa := R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
	return aa.ToQuat()
}

// Quat returns the underlying gonum quaternion.
func (q Quaternion) Quat() quat.Number {
	return quat.Number(q)
}

// Normalize scales q to unit length.
func (q Quaternion) Normalize() Quaternion {
	n := quat.Abs(quat.Number(q))
	if n == 0 || math.IsNaN(n) {
		return NewZeroOrientation()
	}
	if n == 1 {
		return q
	}
	return Quaternion(quat.Scale(1/n, quat.Number(q)))
}

// Mul composes q and o (o applied first) and renormalizes the result.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion(quat.Mul(quat.Number(q), quat.Number(o))).Normalize()
}

// Conj returns the conjugate, which is the inverse rotation for a unit quaternion.
func (q Quaternion) Conj() Quaternion {
	return Quaternion(quat.Conj(quat.Number(q)))
}

// RotateVector applies the rotation to v.
func (q Quaternion) RotateVector(v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(quat.Number(q), p), quat.Conj(quat.Number(q)))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Slerp returns a function interpolating along the shortest arc from q (by=0) to to (by=1).
func (q Quaternion) Slerp(to Quaternion) func(by float64) Quaternion {
	from := q.Normalize()
	to = to.Normalize()
	dot := from.Real*to.Real + from.Imag*to.Imag + from.Jmag*to.Jmag + from.Kmag*to.Kmag
	if dot < 0 {
		to = Flip(to)
		dot = -dot
	}
	if dot > slerpLinearThreshold {
		return func(by float64) Quaternion {
			return Quaternion{
				Real: from.Real + (to.Real-from.Real)*by,
				Imag: from.Imag + (to.Imag-from.Imag)*by,
				Jmag: from.Jmag + (to.Jmag-from.Jmag)*by,
				Kmag: from.Kmag + (to.Kmag-from.Kmag)*by,
			}.Normalize()
		}
	}
	theta0 := math.Acos(dot)
	sinTheta0 := math.Sin(theta0)
	return func(by float64) Quaternion {
		theta := theta0 * by
		s0 := math.Cos(theta) - dot*math.Sin(theta)/sinTheta0
		s1 := math.Sin(theta) / sinTheta0
		return Quaternion{
			Real: s0*from.Real + s1*to.Real,
			Imag: s0*from.Imag + s1*to.Imag,
			Jmag: s0*from.Jmag + s1*to.Jmag,
			Kmag: s0*from.Kmag + s1*to.Kmag,
		}.Normalize()
	}
}

// Matrix3 returns the rotation matrix of q.
func (q Quaternion) Matrix3() mgl64.Mat3 {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Normalize().Mat4().Mat3()
}

// Matrix4 returns the homogeneous rotation matrix of q, for renderers that take 4x4 transforms.
func (q Quaternion) Matrix4() mgl64.Mat4 {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Normalize().Mat4()
}

// EulerAngles returns q as roll, pitch and yaw in radians.
func (q Quaternion) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(quat.Number(q))
}

// QuatToEulerAngles converts a rotation unit quaternion to euler angles.
// See the following wikipedia page for the formulas used here:
// https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles#Quaternion_to_Euler_angles_conversion
// Euler angles are terrible, don't use them for anything but display.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	sinPitch := 2 * (w*y - z*x)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	return &EulerAngles{
		Roll:  math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		Pitch: math.Asin(sinPitch),
		Yaw:   math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q Quaternion) Quaternion {
	return Quaternion{-q.Real, -q.Imag, -q.Jmag, -q.Kmag}
}
