package path

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/stewart-rig/stewart/utils"
)

// Ellipse is the center parameterization of an elliptical arc.
type Ellipse struct {
	Center r2.Point
	Radii  r2.Point
	// Rotation of the ellipse x-axis in radians.
	Rotation float64
	// Start is the parametric start angle; Sweep is the signed angle travelled, both in radians.
	Start float64
	Sweep float64
}

// PointAt returns the point of the ellipse at parametric angle theta.
func (e Ellipse) PointAt(theta float64) r2.Point {
	sinPhi, cosPhi := math.Sincos(e.Rotation)
	x := e.Radii.X * math.Cos(theta)
	y := e.Radii.Y * math.Sin(theta)
	return r2.Point{
		X: e.Center.X + cosPhi*x - sinPhi*y,
		Y: e.Center.Y + sinPhi*x + cosPhi*y,
	}
}

// ArcCenter converts an endpoint-parameterized arc segment drawn from 'from' into its center
// parameterization. Radii too small to reach the endpoint are scaled up. ok is false for arcs
// that degenerate: coincident endpoints or a zero radius.
func ArcCenter(from r2.Point, s Segment) (e Ellipse, ok bool) {
	to := s.To
	rx, ry := math.Abs(s.Radii.X), math.Abs(s.Radii.Y)
	if from == to || rx == 0 || ry == 0 {
		return Ellipse{}, false
	}
	phi := utils.DegToRad(s.XAxisRotation)
	sinPhi, cosPhi := math.Sincos(phi)

	dx := (from.X - to.X) / 2
	dy := (from.Y - to.Y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := utils.Square(x1)/utils.Square(rx) + utils.Square(y1)/utils.Square(ry); lambda > 1 {
		scale := math.Sqrt(lambda)
		rx *= scale
		ry *= scale
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	radicand := utils.SafeDiv(num, den)
	if radicand < 0 {
		radicand = 0
	}
	coef := math.Sqrt(radicand)
	if s.LargeArc == s.Sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	center := r2.Point{
		X: cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2,
		Y: sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2,
	}

	u := r2.Point{X: (x1 - cx1) / rx, Y: (y1 - cy1) / ry}
	v := r2.Point{X: (-x1 - cx1) / rx, Y: (-y1 - cy1) / ry}
	start := angleBetween(r2.Point{X: 1}, u)
	sweep := angleBetween(u, v)
	if !s.Sweep && sweep > 0 {
		sweep -= 2 * math.Pi
	} else if s.Sweep && sweep < 0 {
		sweep += 2 * math.Pi
	}

	return Ellipse{
		Center:   center,
		Radii:    r2.Point{X: rx, Y: ry},
		Rotation: phi,
		Start:    start,
		Sweep:    sweep,
	}, true
}

// ArcSteps is the number of points an arc of the given sweep (radians) is drawn with when no
// step spans more than stepDegrees.
func ArcSteps(sweep, stepDegrees float64) int {
	if !(stepDegrees > 0) {
		stepDegrees = DefaultArcStepDegrees
	}
	steps := int(math.Ceil(math.Abs(utils.RadToDeg(sweep)) / stepDegrees))
	if steps < 1 {
		return 1
	}
	return steps
}

// ArcPoints flattens an arc segment drawn from 'from', excluding 'from' itself. A zero radius
// arc is a straight line to its endpoint and an arc ending where it starts draws nothing.
func ArcPoints(from r2.Point, s Segment, stepDegrees float64) []r2.Point {
	e, ok := ArcCenter(from, s)
	if !ok {
		if from == s.To {
			return nil
		}
		return []r2.Point{s.To}
	}
	steps := ArcSteps(e.Sweep, stepDegrees)
	pts := make([]r2.Point, 0, steps)
	for j := 1; j < steps; j++ {
		pts = append(pts, e.PointAt(e.Start+e.Sweep*float64(j)/float64(steps)))
	}
	// land exactly on the requested endpoint
	return append(pts, s.To)
}

func angleBetween(u, v r2.Point) float64 {
	cos := u.Dot(v) / (u.Norm() * v.Norm())
	angle := math.Acos(utils.Clamp(cos, -1, 1))
	if u.Cross(v) < 0 {
		return -angle
	}
	return angle
}
