package animation

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/stewart-rig/stewart/projection"
	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/trajectory"
)

// aim is a waypoint projected onto the wall with its two axis rotations prepared.
type aim struct {
	projection.Aim
	qz, qy spatialmath.Quaternion
}

// Table evaluates a trajectory at progress fractions. With a wall attached every waypoint is an
// aim point on the wall and the platform rotates to trace it.
type Table struct {
	traj      *trajectory.Trajectory
	fractions []float64
	poses     []Pose
	wall      *projection.Wall
	aims      []aim
}

// NewTable prepares traj for evaluation. wall may be nil to follow the waypoints directly.
func NewTable(traj *trajectory.Trajectory, wall *projection.Wall) *Table {
	n := len(traj.Waypoints)
	t := &Table{traj: traj, wall: wall, poses: make([]Pose, n), fractions: make([]float64, n)}

	times := make([]float64, n)
	for i := 1; i < n; i++ {
		times[i] = traj.Waypoints[i].T.Seconds()
	}
	floats.CumSum(t.fractions, times)
	if total := traj.Duration.Seconds(); total > 0 {
		floats.Scale(1/total, t.fractions)
	}

	if wall != nil {
		t.aims = make([]aim, n)
	}
	for i, wp := range traj.Waypoints {
		if wall == nil {
			t.poses[i] = Pose{
				Pose:  spatialmath.NewPose(wp.Position(), spatialmath.NewZeroOrientation()),
				Laser: wp.Drawing,
			}
			continue
		}
		a := wall.Project(wp.Position())
		t.aims[i] = aim{
			Aim: a,
			qz:  spatialmath.FromAxisAngle(spatialmath.ZAxis, a.RotationZ),
			qy:  spatialmath.FromAxisAngle(spatialmath.YAxis, a.RotationY),
		}
		t.poses[i] = Pose{Pose: a.Pose(), Laser: a.Laser, ExtraLaserLength: a.ExtraLaserLength}
	}
	return t
}

// Duration is the time the table takes to play.
func (t *Table) Duration() time.Duration {
	return t.traj.Duration
}

// Trajectory returns the waypoints behind the table.
func (t *Table) Trajectory() *trajectory.Trajectory {
	return t.traj
}

// Poses returns the pose of every waypoint.
func (t *Table) Poses() []Pose {
	return t.poses
}

// At returns the pose at progress p in [0, 1]. Between waypoints the position is interpolated
// linearly and the laser takes the state of the waypoint being approached. Past the last
// bracket the final pose is returned.
func (t *Table) At(p float64) Pose {
	n := len(t.poses)
	if n == 0 {
		return NeutralPose()
	}
	for i := 1; i < n; i++ {
		start, end := t.fractions[i-1], t.fractions[i]
		if start <= p && p < end {
			return t.between(i-1, i, (p-start)/(end-start))
		}
	}
	return t.poses[n-1]
}

func (t *Table) between(from, to int, s float64) Pose {
	if t.wall == nil {
		a, b := t.poses[from], t.poses[to]
		return Pose{Pose: spatialmath.Interpolate(a.Pose, b.Pose)(s), Laser: b.Laser}
	}
	a, b := t.aims[from], t.aims[to]
	qz := a.qz.Slerp(b.qz)(s)
	qy := a.qy.Slerp(b.qy)(s)
	alpha := lerp(a.RotationZ, b.RotationZ, s)
	beta := lerp(a.RotationY, b.RotationY, s)
	return Pose{
		Pose: spatialmath.NewPose(
			lerpVector(a.Translation, b.Translation, s),
			qz.Mul(qy),
		),
		Laser:            b.Laser,
		ExtraLaserLength: t.wall.ExtraLaserLength(alpha, beta),
	}
}

func lerp(a, b, s float64) float64 {
	return a + (b-a)*s
}

func lerpVector(a, b r3.Vector, s float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(s))
}
