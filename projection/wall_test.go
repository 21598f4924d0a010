package projection

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/stewart-rig/stewart/spatialmath"
)

func newTestWall(t *testing.T) *Wall {
	t.Helper()
	w, err := NewWall(Config{RotationAxisOffset: 50, WallDistance: 450})
	test.That(t, err, test.ShouldBeNil)
	return w
}

func TestProjectCenter(t *testing.T) {
	w := newTestWall(t)
	aim := w.Project(r3.Vector{})
	test.That(t, aim.RotationZ, test.ShouldEqual, 0)
	test.That(t, aim.RotationY, test.ShouldAlmostEqual, 0)
	test.That(t, aim.Translation.Norm(), test.ShouldAlmostEqual, 0)
	test.That(t, aim.ExtraLaserLength, test.ShouldAlmostEqual, 0)
	test.That(t, aim.Laser, test.ShouldBeTrue)
	test.That(t, spatialmath.OrientationAlmostEqual(aim.Orientation(), spatialmath.NewZeroOrientation()), test.ShouldBeTrue)

	test.That(t, w.Project(r3.Vector{X: -10}).Laser, test.ShouldBeFalse)
}

func TestProjectSideways(t *testing.T) {
	w := newTestWall(t)
	aim := w.Project(r3.Vector{Y: 500})
	test.That(t, aim.RotationZ, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, aim.Translation.X, test.ShouldAlmostEqual, -(50 - 50*math.Sqrt2/2))
	test.That(t, aim.Translation.Y, test.ShouldAlmostEqual, 50*math.Sqrt2/2)
	test.That(t, aim.Translation.Z, test.ShouldAlmostEqual, 0)
	test.That(t, aim.ExtraLaserLength, test.ShouldAlmostEqual, 500*(math.Sqrt2-1))

	// the beam leaves along x and is turned toward the target
	beam := aim.Orientation().RotateVector(r3.Vector{X: 1})
	test.That(t, beam.X, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, beam.Y, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, beam.Z, test.ShouldAlmostEqual, 0)
}

func TestProjectUpward(t *testing.T) {
	w := newTestWall(t)
	aim := w.Project(r3.Vector{Z: 500})
	test.That(t, aim.RotationY, test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, aim.Translation.Z, test.ShouldAlmostEqual, 50*math.Sqrt2/2)

	beam := aim.Orientation().RotateVector(r3.Vector{X: 1})
	test.That(t, beam.X, test.ShouldAlmostEqual, math.Sqrt2/2)
	test.That(t, beam.Y, test.ShouldAlmostEqual, 0)
	test.That(t, beam.Z, test.ShouldAlmostEqual, math.Sqrt2/2)

	pose := aim.Pose()
	test.That(t, pose.Translation, test.ShouldResemble, aim.Translation)
}

func TestProjectionConfig(t *testing.T) {
	_, err := NewWall(Config{WallDistance: 0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"wall_distance" is required`)

	_, err = NewWall(Config{RotationAxisOffset: -1, WallDistance: 100})
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)

	w, err := NewWall(Config{WallDistance: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.Config(), test.ShouldResemble, Config{WallDistance: 100})
	// without an offset the platform only rotates
	test.That(t, w.Project(r3.Vector{Y: 30, Z: -20}).Translation.Norm(), test.ShouldAlmostEqual, 0)
}
