// Package projection aims a platform-mounted laser at points on a wall in front of it.
package projection

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/utils"
)

// ErrInvalidConfig is returned for unusable projection settings.
var ErrInvalidConfig = errors.New("invalid projection config")

// Config places the wall relative to the platform.
type Config struct {
	// RotationAxisOffset is the distance from the platform rotation center to the laser exit.
	RotationAxisOffset float64 `json:"rotation_axis_offset"`
	// WallDistance is the distance from the laser exit to the wall.
	WallDistance float64 `json:"wall_distance"`
}

// Validate ensures the config describes a reachable wall.
func (c *Config) Validate(path string) error {
	if c.RotationAxisOffset < 0 {
		return utils.NewConfigValidationError(path, errors.Wrap(ErrInvalidConfig, "rotation_axis_offset must not be negative"))
	}
	if !(c.WallDistance > 0) {
		return utils.NewConfigValidationFieldRequiredError(path, "wall_distance")
	}
	return nil
}

// Wall converts wall targets into platform poses.
type Wall struct {
	offset, distance float64
}

// NewWall returns a Wall for a validated config.
func NewWall(cfg Config) (*Wall, error) {
	if err := cfg.Validate("projection"); err != nil {
		return nil, err
	}
	return &Wall{offset: cfg.RotationAxisOffset, distance: cfg.WallDistance}, nil
}

// Config returns the settings the wall was built with.
func (w *Wall) Config() Config {
	return Config{RotationAxisOffset: w.offset, WallDistance: w.distance}
}

// Aim is the platform pose that points the laser at one wall target.
type Aim struct {
	// RotationZ turns the laser sideways and RotationY tilts it, both in radians.
	RotationZ float64
	RotationY float64
	// Translation keeps the laser exit on its sphere around the rotation center.
	Translation r3.Vector
	Laser       bool
	// ExtraLaserLength is how much further the beam travels than to the wall center.
	ExtraLaserLength float64
}

// Project aims at target, whose y and z are the lateral and vertical wall coordinates and
// whose x is the pen depth. The laser is on only at depth zero.
func (w *Wall) Project(target r3.Vector) Aim {
	reach := w.offset + w.distance
	alpha := math.Atan(target.Y / reach)
	beta := math.Atan(-target.Z / reach)
	return Aim{
		RotationZ:        alpha,
		RotationY:        beta,
		Translation:      w.Compensation(alpha, beta),
		Laser:            target.X == 0,
		ExtraLaserLength: w.ExtraLaserLength(alpha, beta),
	}
}

// Compensation is the translation that keeps the laser exit in place for the given rotations.
func (w *Wall) Compensation(alpha, beta float64) r3.Vector {
	r := w.offset
	return r3.Vector{
		X: -(r - r*math.Cos(alpha)*math.Cos(beta)),
		Y: r * math.Sin(alpha),
		Z: -r * math.Sin(beta),
	}
}

// ExtraLaserLength is the beam length beyond the perpendicular distance to the wall.
func (w *Wall) ExtraLaserLength(alpha, beta float64) float64 {
	return (w.offset + w.distance) * (1/(math.Cos(alpha)*math.Cos(beta)) - 1)
}

// Orientation composes the yaw and pitch of an aim.
func (a Aim) Orientation() spatialmath.Quaternion {
	return Orientation(a.RotationZ, a.RotationY)
}

// Pose returns the aim as a platform pose.
func (a Aim) Pose() spatialmath.Pose {
	return spatialmath.NewPose(a.Translation, a.Orientation())
}

// Orientation is the rotation about z by alpha followed by the rotation about y by beta.
func Orientation(alpha, beta float64) spatialmath.Quaternion {
	qz := spatialmath.FromAxisAngle(spatialmath.ZAxis, alpha)
	qy := spatialmath.FromAxisAngle(spatialmath.YAxis, beta)
	return qz.Mul(qy)
}
