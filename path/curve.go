package path

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	// DefaultCurveSteps is how many points a Bezier curve is sampled into.
	DefaultCurveSteps = 100
	// DefaultArcStepDegrees is the largest angular step between two arc points.
	DefaultArcStepDegrees = 2.0
	maxFlattenDepth       = 16
)

// QuadraticAt evaluates a quadratic Bezier curve at t in [0, 1].
func QuadraticAt(p0, p1, p2 r2.Point, t float64) r2.Point {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
}

// CubicAt evaluates a cubic Bezier curve at t in [0, 1].
func CubicAt(p0, p1, p2, p3 r2.Point, t float64) r2.Point {
	u := 1 - t
	return p0.Mul(u * u * u).
		Add(p1.Mul(3 * u * u * t)).
		Add(p2.Mul(3 * u * t * t)).
		Add(p3.Mul(t * t * t))
}

// QuadraticLUT samples a quadratic curve at t = i/steps for i in 1..steps.
func QuadraticLUT(p0, p1, p2 r2.Point, steps int) []r2.Point {
	return lut(steps, func(t float64) r2.Point { return QuadraticAt(p0, p1, p2, t) })
}

// CubicLUT samples a cubic curve at t = i/steps for i in 1..steps.
func CubicLUT(p0, p1, p2, p3 r2.Point, steps int) []r2.Point {
	return lut(steps, func(t float64) r2.Point { return CubicAt(p0, p1, p2, p3, t) })
}

func lut(steps int, at func(t float64) r2.Point) []r2.Point {
	if steps < 1 {
		steps = 1
	}
	pts := make([]r2.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		pts = append(pts, at(float64(i)/float64(steps)))
	}
	return pts
}

// FlattenCubic subdivides a cubic curve until every piece is within flatness of its chord and
// returns the piece endpoints, excluding p0. Straight curves collapse to their endpoint.
func FlattenCubic(p0, p1, p2, p3 r2.Point, flatness float64) []r2.Point {
	var out []r2.Point
	flattenCubic(p0, p1, p2, p3, flatness, 0, &out)
	return out
}

// FlattenQuadratic is FlattenCubic for a quadratic curve, by degree elevation.
func FlattenQuadratic(p0, p1, p2 r2.Point, flatness float64) []r2.Point {
	c1 := p0.Add(p1.Sub(p0).Mul(2.0 / 3))
	c2 := p2.Add(p1.Sub(p2).Mul(2.0 / 3))
	return FlattenCubic(p0, c1, c2, p2, flatness)
}

func flattenCubic(p0, p1, p2, p3 r2.Point, flatness float64, depth int, out *[]r2.Point) {
	if depth >= maxFlattenDepth || cubicFlat(p0, p1, p2, p3, flatness) {
		*out = append(*out, p3)
		return
	}
	// de Casteljau split at t=0.5
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	m := mid(p012, p123)
	flattenCubic(p0, p01, p012, m, flatness, depth+1, out)
	flattenCubic(m, p123, p23, p3, flatness, depth+1, out)
}

// cubicFlat bounds the distance between the curve and its chord by the control point offsets.
func cubicFlat(p0, p1, p2, p3 r2.Point, flatness float64) bool {
	ux := 3*p1.X - 2*p0.X - p3.X
	uy := 3*p1.Y - 2*p0.Y - p3.Y
	vx := 3*p2.X - 2*p3.X - p0.X
	vy := 3*p2.Y - 2*p3.Y - p0.Y
	return math.Max(ux*ux, vx*vx)+math.Max(uy*uy, vy*vy) <= 16*flatness*flatness
}

func mid(a, b r2.Point) r2.Point {
	return a.Add(b).Mul(0.5)
}
