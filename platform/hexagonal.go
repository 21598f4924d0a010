package platform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// With the platform turned, joint i of the base pairs with this joint of the platform.
var turnedPlatformIndex = [NumLegs]int{4, 3, 0, 5, 2, 1}

// hexPlate returns the six vertices of a plate whose long sides touch the circle of radius
// outer and whose short sides sit so that the inscribed radius is inner.
func hexPlate(inner, outer, rot float64) []r2.Point {
	apothem := (2*inner - outer) / math.Sqrt(3)
	ret := make([]r2.Point, 0, NumLegs)
	for i := 0; i < NumLegs; i++ {
		phi := float64(i-i%2)/3*math.Pi + rot
		ap := apothem
		if i%2 == 1 {
			ap = -ap
		}
		ret = append(ret, r2.Point{
			X: outer*math.Cos(phi) + ap*math.Sin(phi),
			Y: outer*math.Sin(phi) - ap*math.Cos(phi),
		})
	}
	return ret
}

// BuildHexagonal returns the geometry of a platform with hexagonal plates. The legs of each pair
// straddle the midpoint of one long base edge, shaft distance apart along that edge, and attach to
// the matching platform edge anchor distance apart.
func BuildHexagonal(cfg HexagonalConfig) (*Geometry, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate("platform"); err != nil {
		return nil, err
	}
	turn := *cfg.PlatformTurn

	platformRot := 0.
	if turn {
		platformRot = math.Pi
	}
	baseInts := hexPlate(cfg.BaseRadius, cfg.BaseRadiusOuter, 0)
	platformInts := hexPlate(cfg.PlatformRadius, cfg.PlatformRadiusOuter, platformRot)

	var basePoints, platPoints [NumLegs]r3.Vector
	var motorAngle [NumLegs]float64
	for i := 0; i < NumLegs; i++ {
		midK := i | 1
		baseC, baseN := baseInts[midK], baseInts[(midK+1)%NumLegs]
		platC, platN := platformInts[midK], platformInts[(midK+1)%NumLegs]

		baseDir := baseN.Sub(baseC).Normalize()
		baseMid := baseC.Add(baseN).Mul(0.5)
		platMid := platC.Add(platN).Mul(0.5)

		pm := 1.
		if i%2 == 1 {
			pm = -1
		}
		b := baseMid.Add(baseDir.Mul(cfg.ShaftDistance * pm))
		p := platMid.Add(baseDir.Mul(cfg.AnchorDistance * pm))
		basePoints[i] = r3.Vector{X: b.X, Y: b.Y}
		platPoints[i] = r3.Vector{X: p.X, Y: p.Y}
		motorAngle[i] = math.Atan2(baseDir.Y, baseDir.X) + hornParity(i, cfg.HornDirection)*math.Pi
	}

	var legs [NumLegs]Leg
	for i := range legs {
		j := i
		if turn {
			j = turnedPlatformIndex[i]
		}
		legs[i] = Leg{BaseJoint: basePoints[i], PlatformJoint: platPoints[j], MotorAzimuth: motorAngle[i]}
	}

	g, err := newGeometry(ShapeHexagonal, cfg.Config, legs)
	if err != nil {
		return nil, err
	}
	g.BaseOutline = baseInts
	g.PlatformOutline = platformInts
	return g, nil
}
