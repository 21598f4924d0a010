package path

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestParseAbsoluteAndRelative(t *testing.T) {
	segs, err := Parse("M10 10 L20,10 l0 10 H0 v-20 z")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs, test.ShouldResemble, []Segment{
		{Kind: KindMove, To: r2.Point{X: 10, Y: 10}},
		{Kind: KindLine, To: r2.Point{X: 20, Y: 10}},
		{Kind: KindLine, To: r2.Point{X: 20, Y: 20}},
		{Kind: KindLine, To: r2.Point{X: 0, Y: 20}},
		{Kind: KindLine, To: r2.Point{X: 0, Y: 0}},
		{Kind: KindLine, To: r2.Point{X: 10, Y: 10}},
	})
}

func TestParseImplicitCommands(t *testing.T) {
	segs, err := Parse("m1 1 2 2 3 3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs, test.ShouldResemble, []Segment{
		{Kind: KindMove, To: r2.Point{X: 1, Y: 1}},
		{Kind: KindLine, To: r2.Point{X: 3, Y: 3}},
		{Kind: KindLine, To: r2.Point{X: 6, Y: 6}},
	})

	segs, err = Parse("M0 0 L1-1.5.5 2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs, test.ShouldHaveLength, 3)
	test.That(t, segs[1].To, test.ShouldResemble, r2.Point{X: 1, Y: -1.5})
	test.That(t, segs[2].To, test.ShouldResemble, r2.Point{X: 0.5, Y: 2})

	// the trailing .5 starts an implicit line that is missing its y
	_, err = Parse("M0 0 L1-1.5.5")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)
}

func TestParseSmoothCurves(t *testing.T) {
	segs, err := Parse("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs, test.ShouldHaveLength, 3)
	test.That(t, segs[2].Kind, test.ShouldEqual, KindCubic)
	test.That(t, segs[2].C1, test.ShouldResemble, r2.Point{X: 10, Y: -10})

	segs, err = Parse("M0 0 Q5 10 10 0 T20 0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs[2].Kind, test.ShouldEqual, KindQuadratic)
	test.That(t, segs[2].C1, test.ShouldResemble, r2.Point{X: 15, Y: -10})

	// without a preceding curve the reflected control point is the current point
	segs, err = Parse("M3 4 T10 0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs[1].C1, test.ShouldResemble, r2.Point{X: 3, Y: 4})
}

func TestParseArc(t *testing.T) {
	segs, err := Parse("M0 0 a25 25 -30 0 1 50 -25")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs[1], test.ShouldResemble, Segment{
		Kind:          KindArc,
		Radii:         r2.Point{X: 25, Y: 25},
		XAxisRotation: -30,
		Sweep:         true,
		To:            r2.Point{X: 50, Y: -25},
	})

	_, err = Parse("M0 0 A25 25 0 2 1 50 -25")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("M0 0 X10 10")
	test.That(t, errors.Is(err, ErrUnknownCommand), test.ShouldBeTrue)
	var cmdErr *CommandError
	test.That(t, errors.As(err, &cmdErr), test.ShouldBeTrue)
	test.That(t, cmdErr.Command, test.ShouldEqual, "X")
	test.That(t, cmdErr.Offset, test.ShouldEqual, 5)

	_, err = Parse("M0 0 L10")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "want 2 numbers, got 1")

	_, err = Parse("10 10")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)

	_, err = Parse("M0 0 Z 5 5")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)

	_, err = Parse("M0 0 L#4 4")
	test.That(t, errors.Is(err, ErrMalformedPath), test.ShouldBeTrue)

	segs, err := Parse("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segs, test.ShouldBeEmpty)
}

func TestCurveLUT(t *testing.T) {
	p0, p1, p2, p3 := r2.Point{}, r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 10}, r2.Point{X: 10, Y: 0}
	pts := CubicLUT(p0, p1, p2, p3, DefaultCurveSteps)
	test.That(t, pts, test.ShouldHaveLength, DefaultCurveSteps)
	test.That(t, pts[len(pts)-1], test.ShouldResemble, p3)
	test.That(t, pts[49].X, test.ShouldAlmostEqual, 5)
	test.That(t, pts[49].Y, test.ShouldAlmostEqual, 7.5)

	q := QuadraticLUT(p0, r2.Point{X: 5, Y: 10}, r2.Point{X: 10}, 4)
	test.That(t, q, test.ShouldHaveLength, 4)
	test.That(t, q[1].X, test.ShouldAlmostEqual, 5)
	test.That(t, q[1].Y, test.ShouldAlmostEqual, 5)

	test.That(t, CubicLUT(p0, p1, p2, p3, 0), test.ShouldHaveLength, 1)
}

func TestFlattenCubic(t *testing.T) {
	p0, p1, p2, p3 := r2.Point{}, r2.Point{X: 0, Y: 10}, r2.Point{X: 10, Y: 10}, r2.Point{X: 10, Y: 0}
	coarse := FlattenCubic(p0, p1, p2, p3, 1)
	fine := FlattenCubic(p0, p1, p2, p3, 0.01)
	test.That(t, len(fine), test.ShouldBeGreaterThan, len(coarse))
	test.That(t, fine[len(fine)-1], test.ShouldResemble, p3)

	// every chord midpoint stays near the curve
	prev := p0
	for _, p := range fine {
		m := mid(prev, p)
		best := math.Inf(1)
		for i := 0; i <= 1000; i++ {
			best = math.Min(best, m.Sub(CubicAt(p0, p1, p2, p3, float64(i)/1000)).Norm())
		}
		test.That(t, best, test.ShouldBeLessThan, 0.05)
		prev = p
	}

	line := FlattenCubic(p0, r2.Point{X: 1}, r2.Point{X: 2}, r2.Point{X: 3}, 0.1)
	test.That(t, line, test.ShouldResemble, []r2.Point{{X: 3}})

	quad := FlattenQuadratic(p0, r2.Point{X: 5, Y: 10}, r2.Point{X: 10}, 0.01)
	test.That(t, quad[len(quad)-1], test.ShouldResemble, r2.Point{X: 10})
}

func TestArcCenter(t *testing.T) {
	from := r2.Point{X: 100, Y: 0}
	e, ok := ArcCenter(from, Segment{Kind: KindArc, Radii: r2.Point{X: 100, Y: 100}, Sweep: true, To: r2.Point{X: -100}})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, e.Center.X, test.ShouldAlmostEqual, 0)
	test.That(t, e.Center.Y, test.ShouldAlmostEqual, 0)
	test.That(t, e.Sweep, test.ShouldAlmostEqual, math.Pi)

	// radii too small to span the endpoints are scaled up
	e, ok = ArcCenter(from, Segment{Kind: KindArc, Radii: r2.Point{X: 10, Y: 10}, To: r2.Point{X: -100}})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, e.Radii.X, test.ShouldAlmostEqual, 100)
	test.That(t, e.Sweep, test.ShouldAlmostEqual, -math.Pi)

	_, ok = ArcCenter(from, Segment{Kind: KindArc, Radii: r2.Point{X: 10, Y: 10}, To: from})
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = ArcCenter(from, Segment{Kind: KindArc, Radii: r2.Point{X: 0, Y: 10}, To: r2.Point{}})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestArcPoints(t *testing.T) {
	r := 100.0
	from := r2.Point{X: r}
	to := r2.Point{X: r * math.Cos(0.01), Y: -r * math.Sin(0.01)}
	seg := Segment{Kind: KindArc, Radii: r2.Point{X: r, Y: r}, LargeArc: true, Sweep: true, To: to}

	e, ok := ArcCenter(from, seg)
	test.That(t, ok, test.ShouldBeTrue)
	sweepDeg := math.Abs(e.Sweep) * 180 / math.Pi
	test.That(t, sweepDeg, test.ShouldBeGreaterThan, 359)

	pts := ArcPoints(from, seg, DefaultArcStepDegrees)
	test.That(t, pts, test.ShouldHaveLength, int(math.Ceil(sweepDeg/2)))
	test.That(t, pts[len(pts)-1], test.ShouldResemble, to)

	prev := from
	for _, p := range pts {
		test.That(t, p.Norm(), test.ShouldAlmostEqual, r, 1e-9)
		// chord of at most two degrees
		test.That(t, p.Sub(prev).Norm(), test.ShouldBeLessThanOrEqualTo, 2*r*math.Sin(math.Pi/180)+1e-9)
		prev = p
	}

	test.That(t, ArcPoints(from, Segment{Kind: KindArc, Radii: r2.Point{X: r, Y: r}, To: from}, 2), test.ShouldBeEmpty)
	test.That(t, ArcPoints(from, Segment{Kind: KindArc, To: r2.Point{}}, 2), test.ShouldResemble, []r2.Point{{}})
	test.That(t, ArcSteps(0, 2), test.ShouldEqual, 1)
}

func TestEllipseRotation(t *testing.T) {
	seg := Segment{Kind: KindArc, Radii: r2.Point{X: 20, Y: 10}, XAxisRotation: 90, Sweep: true, To: r2.Point{X: 0, Y: 40}}
	e, ok := ArcCenter(r2.Point{}, seg)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, e.Center.X, test.ShouldAlmostEqual, 0)
	test.That(t, e.Center.Y, test.ShouldAlmostEqual, 20)
	start := e.PointAt(e.Start)
	test.That(t, start.X, test.ShouldAlmostEqual, 0)
	test.That(t, start.Y, test.ShouldAlmostEqual, 0)
	end := e.PointAt(e.Start + e.Sweep)
	test.That(t, end.Y, test.ShouldAlmostEqual, 40)
}

func TestBounds(t *testing.T) {
	segs, err := Parse("M10 10 h30 v20 h-30 z")
	test.That(t, err, test.ShouldBeNil)
	box, err := Bounds(r2.Point{X: 10, Y: 10}, segs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, box, test.ShouldResemble, Box{X: 10, Y: 10, Width: 30, Height: 20})
	test.That(t, box.Validate(), test.ShouldBeNil)
	test.That(t, box.Center(), test.ShouldResemble, r2.Point{X: 25, Y: 20})

	_, err = Bounds(r2.Point{}, []Segment{{Kind: "spline"}})
	var cmdErr *CommandError
	test.That(t, errors.As(err, &cmdErr), test.ShouldBeTrue)
	test.That(t, cmdErr.Offset, test.ShouldEqual, 0)

	test.That(t, errors.Is(Box{Width: 0, Height: 1}.Validate(), ErrInvalidBox), test.ShouldBeTrue)

	segs, err = Parse("M0 0 H80")
	test.That(t, err, test.ShouldBeNil)
	box, err = Bounds(r2.Point{}, segs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, box, test.ShouldResemble, Box{X: 0, Y: -40, Width: 80, Height: 80})
	test.That(t, box.Validate(), test.ShouldBeNil)

	segs, err = Parse("M5 0 V10")
	test.That(t, err, test.ShouldBeNil)
	box, err = Bounds(r2.Point{X: 5}, segs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, box, test.ShouldResemble, Box{X: 0, Y: 0, Width: 10, Height: 10})

	box, err = Bounds(r2.Point{X: 3, Y: 4}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errors.Is(box.Validate(), ErrInvalidBox), test.ShouldBeTrue)
}
