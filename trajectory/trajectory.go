// Package trajectory turns 2D drawings into timed 3D waypoint sequences for the platform to
// follow.
package trajectory

import (
	"fmt"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/path"
)

// Defaults for Options fields left zero.
const (
	DefaultSize      = 80.0
	DefaultSpeed     = 50.0 // mm/s
	DefaultLiftDepth = -10.0
)

// ErrInvalidOptions is returned when trajectory options cannot be used.
var ErrInvalidOptions = errors.New("invalid trajectory options")

// Axis names one output axis.
type Axis int

// Output axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Plane maps the two drawing axes and the pen depth onto output axes.
type Plane struct {
	U, V, Depth Axis
}

var (
	// PlaneXY draws on a table: the drawing lies in x/y and the pen moves along z.
	PlaneXY = Plane{U: AxisX, V: AxisY, Depth: AxisZ}
	// PlaneYZ draws on a wall in front of the platform: the drawing lies in y/z and the pen
	// moves along x.
	PlaneYZ = Plane{U: AxisY, V: AxisZ, Depth: AxisX}
)

// Validate ensures the plane uses each axis exactly once.
func (p Plane) Validate() error {
	seen := map[Axis]bool{}
	for _, a := range []Axis{p.U, p.V, p.Depth} {
		if a < AxisX || a > AxisZ || seen[a] {
			return errors.Wrapf(ErrInvalidOptions, "plane %v must use x, y and z once each", p)
		}
		seen[a] = true
	}
	return nil
}

func (p Plane) vector(uv r2.Point, depth float64) r3.Vector {
	var out [3]float64
	out[p.U] = uv.X
	out[p.V] = uv.Y
	out[p.Depth] = depth
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}

// Options controls how a drawing is rescaled and timed.
type Options struct {
	// Box is the source rectangle; it is mapped onto a Size x Size window centered on zero.
	Box  path.Box
	Size float64
	// Speed is the travel speed in output units per second.
	Speed float64
	Plane Plane
	// DrawDepth is the pen depth while drawing and LiftDepth while travelling.
	DrawDepth float64
	LiftDepth float64
	// CurveSteps is the Bezier sample count. When Flatness is positive curves are instead
	// subdivided adaptively until within Flatness source units of their chords.
	CurveSteps     int
	Flatness       float64
	ArcStepDegrees float64
}

// WithDefaults returns a copy with zero fields replaced by defaults. A zero Plane is PlaneXY;
// DrawDepth has a usable zero value.
func (o Options) WithDefaults() Options {
	if o.Plane == (Plane{}) {
		o.Plane = PlaneXY
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}
	if o.LiftDepth == 0 {
		o.LiftDepth = DefaultLiftDepth
	}
	if o.CurveSteps == 0 {
		o.CurveSteps = path.DefaultCurveSteps
	}
	if o.ArcStepDegrees == 0 {
		o.ArcStepDegrees = path.DefaultArcStepDegrees
	}
	return o
}

// Validate checks options after defaults are applied.
func (o Options) Validate() error {
	if err := o.Box.Validate(); err != nil {
		return err
	}
	if !(o.Size > 0) {
		return errors.Wrap(ErrInvalidOptions, "size must be positive")
	}
	if !(o.Speed > 0) {
		return errors.Wrap(ErrInvalidOptions, "speed must be positive")
	}
	if o.DrawDepth == o.LiftDepth {
		return errors.Wrap(ErrInvalidOptions, "draw and lift depth must differ")
	}
	return o.Plane.Validate()
}

// Waypoint is a point the platform reaches T after the previous waypoint.
type Waypoint struct {
	X, Y, Z float64
	T       time.Duration
	// Drawing is true when the pen is at draw depth.
	Drawing bool
}

// Position returns the waypoint coordinates.
func (w Waypoint) Position() r3.Vector {
	return r3.Vector{X: w.X, Y: w.Y, Z: w.Z}
}

func (w Waypoint) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f) +%v drawing=%v", w.X, w.Y, w.Z, w.T, w.Drawing)
}

// Trajectory is a timed waypoint sequence.
type Trajectory struct {
	Waypoints []Waypoint
	Duration  time.Duration
}

// New wraps waypoints into a trajectory. The first waypoint is where the trajectory starts, so
// its T is not part of the duration.
func New(waypoints []Waypoint) *Trajectory {
	var total time.Duration
	for i := 1; i < len(waypoints); i++ {
		total += waypoints[i].T
	}
	return &Trajectory{Waypoints: waypoints, Duration: total}
}

// Build rescales the segments into the output window and produces waypoints timed at constant
// speed. Moves lift the pen: they travel at lift depth and then lower it at the destination.
// Drawing starts from the box center at draw depth.
func Build(segments []path.Segment, opts Options) (*Trajectory, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &builder{opts: opts, cur: opts.Box.Center()}
	b.emit(b.cur, opts.DrawDepth)
	for i, s := range segments {
		if err := b.segment(s); err != nil {
			var cmdErr *path.CommandError
			if errors.As(err, &cmdErr) {
				cmdErr.Offset = i
			}
			return nil, err
		}
	}
	b.waypoints[0].T = 0
	return New(b.waypoints), nil
}

type builder struct {
	opts      Options
	cur       r2.Point
	last      r3.Vector
	waypoints []Waypoint
}

func (b *builder) segment(s path.Segment) error {
	if s.Kind == path.KindMove {
		b.emit(b.cur, b.opts.LiftDepth)
		b.emit(s.To, b.opts.LiftDepth)
		b.emit(s.To, b.opts.DrawDepth)
		b.cur = s.To
		return nil
	}

	var pts []r2.Point
	var err error
	switch {
	case b.opts.Flatness > 0 && s.Kind == path.KindCubic:
		pts = path.FlattenCubic(b.cur, s.C1, s.C2, s.To, b.opts.Flatness)
	case b.opts.Flatness > 0 && s.Kind == path.KindQuadratic:
		pts = path.FlattenQuadratic(b.cur, s.C1, s.To, b.opts.Flatness)
	default:
		pts, err = path.Flatten(b.cur, s, b.opts.CurveSteps, b.opts.ArcStepDegrees)
		if err != nil {
			return err
		}
	}
	for _, p := range pts {
		b.emit(p, b.opts.DrawDepth)
	}
	b.cur = s.To
	return nil
}

// emit appends the rescaled point, timed by its distance from the previous waypoint.
func (b *builder) emit(p r2.Point, depth float64) {
	box, size := b.opts.Box, b.opts.Size
	uv := r2.Point{
		X: (p.X-box.X)/box.Width*size - size/2,
		Y: (p.Y-box.Y)/box.Height*size - size/2,
	}
	pos := b.opts.Plane.vector(uv, depth)
	seconds := pos.Distance(b.last) / b.opts.Speed
	b.last = pos
	b.waypoints = append(b.waypoints, Waypoint{
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
		T:       time.Duration(seconds * float64(time.Second)),
		Drawing: depth == b.opts.DrawDepth,
	})
}
