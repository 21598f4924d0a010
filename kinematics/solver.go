// Package kinematics solves the inverse kinematics of a Stewart platform: given a pose of the
// moving plate it finds, for each leg, the servo horn angle that lets the rod reach its joint.
package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/stewart-rig/stewart/platform"
	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/utils"
)

// LegState is the per-leg result of the last Update.
type LegState struct {
	// Q runs from the base origin to the platform joint, in the world frame.
	Q r3.Vector
	// L runs from the base joint to the platform joint.
	L r3.Vector
	// H is the tip of the servo horn, where the rod attaches.
	H r3.Vector

	reachable bool
}

// Reachable reports whether the rod and horn could reach the platform joint.
func (s LegState) Reachable() bool {
	return s.reachable
}

// Snapshot is a copy of the solver state for renderers and exporters that need it to outlive a tick.
type Snapshot struct {
	Pose spatialmath.Pose
	T0   r3.Vector
	Legs [platform.NumLegs]LegSnapshot
}

// LegSnapshot pairs a leg's fixed joints with its derived state.
type LegSnapshot struct {
	BaseJoint     r3.Vector
	PlatformJoint r3.Vector
	LegState
}

// Solver holds a platform geometry and the derived leg state of the most recent pose. The state
// is overwritten by every Update; it is not safe for concurrent use.
type Solver struct {
	geometry *platform.Geometry
	sinBeta  [platform.NumLegs]float64
	cosBeta  [platform.NumLegs]float64

	pose spatialmath.Pose
	legs [platform.NumLegs]LegState
}

// NewSolver returns a solver for the given geometry, positioned at the neutral pose.
func NewSolver(g *platform.Geometry) *Solver {
	s := &Solver{geometry: g}
	for i, leg := range g.Legs {
		s.sinBeta[i] = math.Sin(leg.MotorAzimuth)
		s.cosBeta[i] = math.Cos(leg.MotorAzimuth)
	}
	s.Update(spatialmath.NewZeroPose())
	return s
}

// Geometry returns the geometry the solver was built for.
func (s *Solver) Geometry() *platform.Geometry {
	return s.geometry
}

// Pose returns the pose of the last Update.
func (s *Solver) Pose() spatialmath.Pose {
	return s.pose
}

// Legs returns the derived state of every leg.
func (s *Solver) Legs() [platform.NumLegs]LegState {
	return s.legs
}

// Update recomputes the derived state of every leg for pose. Poses some legs cannot reach are
// not an error; those legs are flagged and report an invalid servo angle.
func (s *Solver) Update(pose spatialmath.Pose) {
	g := s.geometry
	hornLength := g.HornLength
	rodLength := g.RodLength

	s.pose = pose
	for i := range g.Legs {
		b := g.Legs[i].BaseJoint
		o := pose.Orientation.RotateVector(g.Legs[i].PlatformJoint)

		st := &s.legs[i]
		st.Q = pose.Translation.Add(o).Add(g.T0)
		st.L = st.Q.Sub(b)

		// Solve e*sin(a) + f*cos(a) = g for the horn angle a.
		gk := st.L.Norm2() - utils.Square(rodLength) + utils.Square(hornLength)
		ek := 2 * hornLength * st.L.Z
		fk := 2 * hornLength * (s.cosBeta[i]*st.L.X + s.sinBeta[i]*st.L.Y)

		sqSum := ek*ek + fk*fk
		radicand := 1 - gk*gk/sqSum
		if sqSum == 0 || !(radicand >= 0) {
			st.reachable = false
			st.H = r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
			continue
		}
		sqrt1 := math.Sqrt(radicand)
		sqrt2 := math.Sqrt(sqSum)
		sinAlpha := (gk*ek)/sqSum - (fk*sqrt1)/sqrt2
		cosAlpha := (gk*fk)/sqSum + (ek*sqrt1)/sqrt2

		st.reachable = true
		st.H = r3.Vector{
			X: b.X + hornLength*cosAlpha*s.cosBeta[i],
			Y: b.Y + hornLength*cosAlpha*s.sinBeta[i],
			Z: b.Z + hornLength*sinAlpha,
		}
	}
}

// ServoAngles returns the horn angle of every leg for the last Update.
func (s *Solver) ServoAngles() ServoAngles {
	var ret ServoAngles
	g := s.geometry
	for i, st := range s.legs {
		if !st.reachable {
			ret[i] = invalidAngle(LegUnreachable)
			continue
		}
		angle := math.Asin(utils.Clamp((st.H.Z-g.Legs[i].BaseJoint.Z)/g.HornLength, -1, 1))
		switch {
		case math.IsNaN(angle):
			ret[i] = invalidAngle(LegUnreachable)
		case !g.ServoRange.Contains(angle):
			ret[i] = invalidAngle(LegOutOfRange)
		default:
			ret[i] = ServoAngle{Angle: angle, Status: LegValid}
		}
	}
	return ret
}

// Solve updates the solver for pose and returns the servo angles.
func (s *Solver) Solve(pose spatialmath.Pose) ServoAngles {
	s.Update(pose)
	return s.ServoAngles()
}

// Snapshot copies the current state.
func (s *Solver) Snapshot() Snapshot {
	snap := Snapshot{Pose: s.pose, T0: s.geometry.T0}
	for i, leg := range s.geometry.Legs {
		snap.Legs[i] = LegSnapshot{BaseJoint: leg.BaseJoint, PlatformJoint: leg.PlatformJoint, LegState: s.legs[i]}
	}
	return snap
}

// Transform returns the homogeneous transform placing the platform plate in the base frame.
func (s Snapshot) Transform() mgl64.Mat4 {
	t := s.Pose.Translation.Add(s.T0)
	return mgl64.Translate3D(t.X, t.Y, t.Z).Mul4(s.Pose.Orientation.Matrix4())
}
