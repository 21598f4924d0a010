// Package platform builds the static geometry of a six-legged Stewart platform: where every leg is
// anchored on the base and on the moving plate, which way each servo faces, and the neutral height.
package platform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/utils"
)

// NumLegs is the number of legs every platform has.
const NumLegs = 6

// ErrInfeasibleGeometry is returned when the rods are too short to span the joint offsets, so no
// neutral height exists.
var ErrInfeasibleGeometry = errors.New("infeasible platform geometry")

// Shape names the plate layout a geometry was built from.
type Shape string

// Supported plate shapes.
const (
	ShapeHexagonal Shape = "hexagonal"
	ShapeCircular  Shape = "circular"
)

// Leg is one rod and servo assembly. Both joints are fixed at build time; PlatformJoint is
// expressed in the platform's local frame.
type Leg struct {
	BaseJoint     r3.Vector
	PlatformJoint r3.Vector
	// MotorAzimuth is the heading of the servo horn's plane of rotation, in radians.
	MotorAzimuth float64
}

// Geometry is the invariant description of a platform consumed by the inverse kinematics.
type Geometry struct {
	Shape      Shape
	Legs       [NumLegs]Leg
	RodLength  float64
	HornLength float64
	ServoRange ServoRange
	// T0 is added to every pose translation so that the zero pose sits at the neutral height.
	T0 r3.Vector

	// Plate outlines for renderers. Circular plates leave these empty and set the radii.
	BaseOutline     []r2.Point
	PlatformOutline []r2.Point
	BaseRadius      float64
	PlatformRadius  float64
}

// newGeometry fills in the shared fields and solves the neutral height.
func newGeometry(shape Shape, cfg Config, legs [NumLegs]Leg) (*Geometry, error) {
	g := &Geometry{
		Shape:      shape,
		Legs:       legs,
		RodLength:  cfg.RodLength,
		HornLength: cfg.HornLength,
		ServoRange: *cfg.ServoRange,
	}
	if cfg.AbsoluteHeight {
		return g, nil
	}
	z, err := neutralHeight(cfg.RodLength, cfg.HornLength, legs[0])
	if err != nil {
		return nil, err
	}
	g.T0 = r3.Vector{Z: z}
	return g, nil
}

// neutralHeight is the plate height at which the rod and horn of leg form a right angle, which
// satisfies the rod length with the horn level.
func neutralHeight(rodLength, hornLength float64, leg Leg) (float64, error) {
	dx := leg.PlatformJoint.X - leg.BaseJoint.X
	dy := leg.PlatformJoint.Y - leg.BaseJoint.Y
	radicand := utils.Square(rodLength) + utils.Square(hornLength) - utils.Square(dx) - utils.Square(dy)
	if radicand < 0 || math.IsNaN(radicand) {
		return 0, errors.Wrapf(ErrInfeasibleGeometry,
			"rod length %v and horn length %v cannot span a joint offset of %.3f", rodLength, hornLength, math.Hypot(dx, dy))
	}
	return math.Sqrt(radicand), nil
}

// hornParity is 0 or 1 for leg i, selecting which legs get their horn turned half way round.
func hornParity(i, hornDirection int) float64 {
	return float64(((i+hornDirection)%2 + 2) % 2)
}

// String prints a table of the legs with their joints and motor azimuth in degrees.
func (g *Geometry) String() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s platform, rod %.1f, horn %.1f, T0 %.3f", g.Shape, g.RodLength, g.HornLength, g.T0.Z))
	t.AppendHeader(table.Row{"#", "Base joint", "Platform joint", "Motor azimuth"})
	for i, leg := range g.Legs {
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", leg.BaseJoint.X, leg.BaseJoint.Y, leg.BaseJoint.Z),
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", leg.PlatformJoint.X, leg.PlatformJoint.Y, leg.PlatformJoint.Z),
			fmt.Sprintf("%.2f", utils.RadToDeg(leg.MotorAzimuth)),
		})
	}
	return t.Render()
}
