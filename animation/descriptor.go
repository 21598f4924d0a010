// Package animation evaluates platform motions over time: closed-form periodic motions,
// waypoint tables built from drawings, and passthrough of live input.
package animation

import (
	"fmt"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/spatialmath"
)

// ErrUnknownTrajectory is returned when a trajectory name or alias is not registered.
var ErrUnknownTrajectory = errors.New("unknown trajectory")

// ErrNoDuration is returned when a motion without a duration is asked to continue with another.
// Such motions are never complete in time and so never chain.
var ErrNoDuration = errors.New("motion has no duration")

// Pose is a platform pose plus the laser state for drawing motions.
type Pose struct {
	spatialmath.Pose
	Laser            bool
	ExtraLaserLength float64
}

// NeutralPose is the pose at the neutral height with no rotation.
func NeutralPose() Pose {
	return Pose{Pose: spatialmath.NewZeroPose()}
}

// Kind distinguishes how a descriptor produces poses.
type Kind int

// Descriptor kinds.
const (
	KindPeriodic Kind = iota
	KindWaypointTable
	KindLiveInput
)

func (k Kind) String() string {
	switch k {
	case KindPeriodic:
		return "periodic"
	case KindWaypointTable:
		return "waypoint table"
	case KindLiveInput:
		return "live input"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LiveInput is the external control state sampled on each tick.
type LiveInput struct {
	// Pointer is the pointer offset from the center of its input area.
	Pointer r2.Point
	// Axes are the two analog sticks, left x/y then right x/y, each in [-1, 1].
	Axes [4]float64
	// Rotate switches the right stick from tilting to turning about z.
	Rotate bool
}

// PeriodicFunc maps progress in [0, 1] to a pose.
type PeriodicFunc func(progress float64) Pose

// LiveFunc maps live input to a pose.
type LiveFunc func(in LiveInput) Pose

// Descriptor is one named motion. Exactly one of its evaluation sources is set, chosen by Kind
// when the descriptor is built.
type Descriptor struct {
	Name     string
	Kind     Kind
	Duration time.Duration
	// Next is started when this motion completes; empty means stop at the final pose.
	Next        string
	PathVisible bool
	// ResetOnStart returns the platform to neutral when the motion starts.
	ResetOnStart bool

	periodic PeriodicFunc
	table    *Table
	live     LiveFunc
}

// NewPeriodic returns a closed-form motion lasting d.
func NewPeriodic(name string, d time.Duration, next string, fn PeriodicFunc) *Descriptor {
	return &Descriptor{Name: name, Kind: KindPeriodic, Duration: d, Next: next, periodic: fn}
}

// NewWaypointTable returns a motion following the table, with its path shown.
func NewWaypointTable(name string, table *Table, next string) *Descriptor {
	return &Descriptor{
		Name:        name,
		Kind:        KindWaypointTable,
		Duration:    table.Duration(),
		Next:        next,
		PathVisible: true,
		table:       table,
	}
}

// NewLiveInput returns a motion driven by live input on every tick.
func NewLiveInput(name string, fn LiveFunc) *Descriptor {
	return &Descriptor{Name: name, Kind: KindLiveInput, live: fn}
}

// Table returns the waypoint table of a table-driven descriptor.
func (d *Descriptor) Table() *Table {
	return d.table
}

// Evaluate returns the pose at progress. Live motions hold prev when there is no input.
func (d *Descriptor) Evaluate(progress float64, in *LiveInput, prev Pose) Pose {
	switch d.Kind {
	case KindPeriodic:
		return d.periodic(progress)
	case KindWaypointTable:
		return d.table.At(progress)
	case KindLiveInput:
		if in == nil {
			return prev
		}
		return d.live(*in)
	default:
		return prev
	}
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%v, %v)", d.Name, d.Kind, d.Duration)
}
