package platform

import (
	"math"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestBuildHexagonalDefaults(t *testing.T) {
	g, err := BuildHexagonal(HexagonalConfig{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Shape, test.ShouldEqual, ShapeHexagonal)
	test.That(t, g.RodLength, test.ShouldEqual, DefaultRodLength)
	test.That(t, g.HornLength, test.ShouldEqual, DefaultHornLength)
	test.That(t, g.ServoRange, test.ShouldResemble, DefaultServoRange())
	test.That(t, g.T0.Z, test.ShouldAlmostEqual, 133.4291276284121, 1e-9)
	test.That(t, g.BaseOutline, test.ShouldHaveLength, NumLegs)
	test.That(t, g.PlatformOutline, test.ShouldHaveLength, NumLegs)

	// first leg straddles the base edge between vertices 1 and 2, platform joint comes from the turned plate
	test.That(t, g.Legs[0].BaseJoint.X, test.ShouldAlmostEqual, 22.679491924311243)
	test.That(t, g.Legs[0].BaseJoint.Y, test.ShouldAlmostEqual, 79.2820323027551)
	test.That(t, g.Legs[0].PlatformJoint.X, test.ShouldAlmostEqual, -7.6794919243112005)
	test.That(t, g.Legs[0].PlatformJoint.Y, test.ShouldAlmostEqual, 53.301270189221924)
	test.That(t, g.Legs[0].MotorAzimuth, test.ShouldAlmostEqual, 5*math.Pi/6)

	assertDistinctAzimuths(t, g)
	for _, leg := range g.Legs {
		test.That(t, leg.BaseJoint.Z, test.ShouldEqual, 0.)
		test.That(t, leg.PlatformJoint.Z, test.ShouldEqual, 0.)
	}
	test.That(t, g.String(), test.ShouldContainSubstring, "hexagonal platform")
}

func TestBuildHexagonalScenario(t *testing.T) {
	g, err := BuildHexagonal(HexagonalConfig{
		Config:     Config{RodLength: 130, HornLength: 40},
		BaseRadius: 98,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.IsNaN(g.T0.Z), test.ShouldBeFalse)
	test.That(t, g.T0.Z, test.ShouldAlmostEqual, 123.38099687716856, 1e-9)
	test.That(t, len(g.Legs), test.ShouldEqual, NumLegs)
	assertDistinctAzimuths(t, g)
}

func TestPlatformTurnAndHornDirection(t *testing.T) {
	noTurn := false
	g, err := BuildHexagonal(HexagonalConfig{PlatformTurn: &noTurn})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Legs[0].PlatformJoint.X, test.ShouldAlmostEqual, 7.679491924311236)
	test.That(t, g.T0.Z, test.ShouldAlmostEqual, 136.01470508735443, 1e-9)

	flipped, err := BuildHexagonal(HexagonalConfig{Config: Config{HornDirection: 1}})
	test.That(t, err, test.ShouldBeNil)
	want := []float64{5.759587, 2.617994, 1.570796, -1.570796, 3.665191, 0.523599}
	for i, leg := range flipped.Legs {
		test.That(t, leg.MotorAzimuth, test.ShouldAlmostEqual, want[i], 1e-6)
	}

	// negative parity behaves like its odd/even counterpart
	neg, err := BuildHexagonal(HexagonalConfig{Config: Config{HornDirection: -1}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, neg.Legs, test.ShouldResemble, flipped.Legs)
}

func TestAbsoluteHeight(t *testing.T) {
	g, err := BuildHexagonal(HexagonalConfig{Config: Config{AbsoluteHeight: true}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.T0.Z, test.ShouldEqual, 0.)

	// absolute height skips the neutral height solve, so even unreachable rods build
	g, err = BuildHexagonal(HexagonalConfig{Config: Config{RodLength: 10, HornLength: 10, AbsoluteHeight: true}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.T0.Z, test.ShouldEqual, 0.)
}

func TestBuildCircular(t *testing.T) {
	g, err := BuildCircular(CircularConfig{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Shape, test.ShouldEqual, ShapeCircular)
	test.That(t, g.T0.Z, test.ShouldAlmostEqual, 128.46337636575294, 1e-9)
	test.That(t, g.BaseRadius, test.ShouldEqual, DefaultBaseRadius)
	test.That(t, g.PlatformRadius, test.ShouldEqual, DefaultPlatformRadius)
	test.That(t, g.BaseOutline, test.ShouldBeEmpty)
	for _, leg := range g.Legs {
		test.That(t, leg.BaseJoint.Norm(), test.ShouldAlmostEqual, DefaultBaseRadius)
		test.That(t, leg.PlatformJoint.Norm(), test.ShouldAlmostEqual, DefaultPlatformRadius)
	}
	assertDistinctAzimuths(t, g)
}

func TestInfeasibleGeometry(t *testing.T) {
	_, err := BuildHexagonal(HexagonalConfig{Config: Config{RodLength: 10, HornLength: 10}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrInfeasibleGeometry), test.ShouldBeTrue)

	_, err = BuildCircular(CircularConfig{Config: Config{RodLength: 10, HornLength: 10}})
	test.That(t, errors.Is(err, ErrInfeasibleGeometry), test.ShouldBeTrue)
}

func TestInvalidConfig(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  HexagonalConfig
	}{
		{"negative rod", HexagonalConfig{Config: Config{RodLength: -1}}},
		{"negative horn", HexagonalConfig{Config: Config{HornLength: -5}}},
		{"inverted servo range", HexagonalConfig{Config: Config{ServoRange: &ServoRange{Min: 1, Max: -1}}}},
		{"empty servo range", HexagonalConfig{Config: Config{ServoRange: &ServoRange{Min: 1, Max: 1}}}},
		{"negative radius", HexagonalConfig{BaseRadius: -80}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildHexagonal(tc.cfg)
			test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
			test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "platform"`)
		})
	}

	_, err := BuildCircular(CircularConfig{PlatformRadius: -1})
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
}

func TestBuildByShape(t *testing.T) {
	hex, err := Build(Params{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hex.Shape, test.ShouldEqual, ShapeHexagonal)
	test.That(t, hex.T0.Z, test.ShouldAlmostEqual, 133.4291276284121, 1e-9)

	circ, err := Build(Params{Shape: ShapeCircular})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, circ.Shape, test.ShouldEqual, ShapeCircular)

	_, err = Build(Params{Shape: "triangular"})
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
}

func TestServoRange(t *testing.T) {
	r := DefaultServoRange()
	test.That(t, r.Contains(0), test.ShouldBeTrue)
	test.That(t, r.Contains(math.Pi/2), test.ShouldBeTrue)
	test.That(t, r.Contains(math.Pi/2+1e-9), test.ShouldBeFalse)
	test.That(t, r.Contains(math.NaN()), test.ShouldBeFalse)
}

func assertDistinctAzimuths(t *testing.T, g *Geometry) {
	t.Helper()
	az := make([]float64, 0, NumLegs)
	for _, leg := range g.Legs {
		az = append(az, math.Mod(leg.MotorAzimuth+4*math.Pi, 2*math.Pi))
	}
	sort.Float64s(az)
	for i := 1; i < len(az); i++ {
		test.That(t, az[i]-az[i-1], test.ShouldBeGreaterThan, 1e-6)
	}
}
