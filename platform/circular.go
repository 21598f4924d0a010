package platform

import (
	"math"

	"github.com/golang/geo/r3"
)

// BuildCircular returns the geometry of a platform with round plates. Leg pairs are spread a third
// of a turn apart on the base and interleaved on the platform, each joint offset from its pair
// center by half the configured arc length.
func BuildCircular(cfg CircularConfig) (*Geometry, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate("platform"); err != nil {
		return nil, err
	}

	// arc length s on a circle of radius R spans s/R radians
	shaftAngle := cfg.ShaftDistance / cfg.BaseRadius
	anchorAngle := cfg.AnchorDistance / cfg.PlatformRadius

	var legs [NumLegs]Leg
	for i := range legs {
		pm := 1.
		if i%2 == 1 {
			pm = -1
		}
		phiCut := float64(1+i-i%2) * math.Pi / 3
		phiB := float64(i+i%2)*math.Pi/3 + pm*shaftAngle/2
		phiP := phiCut - pm*anchorAngle/2

		legs[i] = Leg{
			BaseJoint:     r3.Vector{X: math.Cos(phiB) * cfg.BaseRadius, Y: math.Sin(phiB) * cfg.BaseRadius},
			PlatformJoint: r3.Vector{X: math.Cos(phiP) * cfg.PlatformRadius, Y: math.Sin(phiP) * cfg.PlatformRadius},
			MotorAzimuth:  phiB + hornParity(i, cfg.HornDirection)*math.Pi + math.Pi/2,
		}
	}

	g, err := newGeometry(ShapeCircular, cfg.Config, legs)
	if err != nil {
		return nil, err
	}
	g.BaseRadius = cfg.BaseRadius
	g.PlatformRadius = cfg.PlatformRadius
	return g, nil
}
