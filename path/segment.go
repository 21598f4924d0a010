// Package path holds the 2D geometry behind vector drawings: path segments, Bezier and elliptical
// arc flattening, and a parser for SVG path data.
package path

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownCommand is returned for a segment kind or path command that is not understood.
	ErrUnknownCommand = errors.New("unknown path command")
	// ErrMalformedPath is returned when path data ends early or holds a bad number.
	ErrMalformedPath = errors.New("malformed path data")
	// ErrInvalidBox is returned for bounding boxes without area.
	ErrInvalidBox = errors.New("bounding box must have positive width and height")
)

// CommandError reports which command of a path could not be used and where it was.
type CommandError struct {
	Command string
	// Offset is the byte offset in path data, or the segment index for segment lists.
	Offset int
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("path command %q at %d: %v", e.Command, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Kind is the type of a path segment.
type Kind string

// Segment kinds.
const (
	KindMove      Kind = "move"
	KindLine      Kind = "line"
	KindQuadratic Kind = "quadratic"
	KindCubic     Kind = "cubic"
	KindArc       Kind = "arc"
)

// Segment is one absolute drawing command. Each starts at the end of the previous segment; which
// fields are meaningful depends on Kind:
//   - move, line: To
//   - quadratic: C1, To
//   - cubic: C1, C2, To
//   - arc: Radii, XAxisRotation (degrees), LargeArc, Sweep, To
type Segment struct {
	Kind          Kind     `json:"kind"`
	To            r2.Point `json:"to"`
	C1            r2.Point `json:"c1,omitempty"`
	C2            r2.Point `json:"c2,omitempty"`
	Radii         r2.Point `json:"radii,omitempty"`
	XAxisRotation float64  `json:"x_axis_rotation,omitempty"`
	LargeArc      bool     `json:"large_arc,omitempty"`
	Sweep         bool     `json:"sweep,omitempty"`
}

// Box is the source-space rectangle a drawing is rescaled from.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate returns ErrInvalidBox for boxes without area.
func (b Box) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) {
		return errors.Wrapf(ErrInvalidBox, "got %vx%v", b.Width, b.Height)
	}
	return nil
}

// Center returns the middle of the box.
func (b Box) Center() r2.Point {
	return r2.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Bounds returns the bounding box of everything the segments draw, starting from start. Curves
// and arcs are flattened first, so the box is exact up to the flattening resolution. A drawing
// that is flat along one axis gets the other axis's extent there, centered on the drawing.
func Bounds(start r2.Point, segments []Segment) (Box, error) {
	rect := r2.RectFromPoints(start)
	cur := start
	for i, s := range segments {
		pts, err := Flatten(cur, s, DefaultCurveSteps, DefaultArcStepDegrees)
		if err != nil {
			return Box{}, withOffset(err, i)
		}
		for _, p := range pts {
			rect = rect.AddPoint(p)
		}
		cur = s.To
	}
	size := rect.Size()
	box := Box{X: rect.Lo().X, Y: rect.Lo().Y, Width: size.X, Height: size.Y}
	switch {
	case box.Height == 0 && box.Width > 0:
		box.Y -= box.Width / 2
		box.Height = box.Width
	case box.Width == 0 && box.Height > 0:
		box.X -= box.Height / 2
		box.Width = box.Height
	}
	return box, nil
}

// Flatten returns the points that approximate segment s drawn from cur, excluding cur itself.
// Moves and lines return their endpoint.
func Flatten(cur r2.Point, s Segment, curveSteps int, arcStepDegrees float64) ([]r2.Point, error) {
	switch s.Kind {
	case KindMove, KindLine:
		return []r2.Point{s.To}, nil
	case KindQuadratic:
		return QuadraticLUT(cur, s.C1, s.To, curveSteps), nil
	case KindCubic:
		return CubicLUT(cur, s.C1, s.C2, s.To, curveSteps), nil
	case KindArc:
		return ArcPoints(cur, s, arcStepDegrees), nil
	default:
		return nil, &CommandError{Command: string(s.Kind), Err: ErrUnknownCommand}
	}
}

func withOffset(err error, offset int) error {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		cmdErr.Offset = offset
	}
	return err
}
