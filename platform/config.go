package platform

import (
	"math"

	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/utils"
)

// Defaults taken when a configuration field is left at its zero value. Lengths are in millimeters.
const (
	DefaultBaseRadius          = 80.
	DefaultBaseRadiusOuter     = 110.
	DefaultPlatformRadius      = 50.
	DefaultPlatformRadiusOuter = 80.
	DefaultRodLength           = 130.
	DefaultHornLength          = 50.
	DefaultShaftDistance       = 20.
	DefaultAnchorDistance      = 20.
)

// ErrInvalidConfig is returned for configuration values that can never describe a platform.
var ErrInvalidConfig = errors.New("invalid platform configuration")

// ServoRange is the permitted servo horn interval in radians.
type ServoRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultServoRange is a horn sweeping a half turn centered on horizontal.
func DefaultServoRange() ServoRange {
	return ServoRange{Min: -math.Pi / 2, Max: math.Pi / 2}
}

// Contains reports whether angle lies within the range, bounds included.
func (r ServoRange) Contains(angle float64) bool {
	return r.Min <= angle && angle <= r.Max
}

// Config holds the parameters every plate shape shares.
type Config struct {
	RodLength  float64 `json:"rod_length"`
	HornLength float64 `json:"horn_length"`
	// HornDirection flips which legs of a pair have their horn pointing the other way.
	HornDirection int         `json:"horn_direction"`
	ServoRange    *ServoRange `json:"servo_range,omitempty"`
	// AbsoluteHeight disables the neutral height solve; poses are then relative to the base plate.
	AbsoluteHeight bool `json:"absolute_height"`
}

func (cfg Config) withDefaults() Config {
	if cfg.RodLength == 0 {
		cfg.RodLength = DefaultRodLength
	}
	if cfg.HornLength == 0 {
		cfg.HornLength = DefaultHornLength
	}
	if cfg.ServoRange == nil {
		r := DefaultServoRange()
		cfg.ServoRange = &r
	}
	return cfg
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate(path string) error {
	if cfg.RodLength <= 0 {
		return utils.NewConfigValidationError(path, errors.Wrapf(ErrInvalidConfig, "rod_length must be positive, got %v", cfg.RodLength))
	}
	if cfg.HornLength <= 0 {
		return utils.NewConfigValidationError(path, errors.Wrapf(ErrInvalidConfig, "horn_length must be positive, got %v", cfg.HornLength))
	}
	if cfg.ServoRange != nil && !(cfg.ServoRange.Min < cfg.ServoRange.Max) {
		return utils.NewConfigValidationError(path, errors.Wrapf(ErrInvalidConfig,
			"servo_range min %v must be below max %v", cfg.ServoRange.Min, cfg.ServoRange.Max))
	}
	return nil
}

// HexagonalConfig describes a platform whose base and moving plate are both truncated triangles
// ("hexagons" with alternating short and long sides).
type HexagonalConfig struct {
	Config

	BaseRadius          float64 `json:"base_radius"`
	BaseRadiusOuter     float64 `json:"base_radius_outer"`
	PlatformRadius      float64 `json:"platform_radius"`
	PlatformRadiusOuter float64 `json:"platform_radius_outer"`
	// PlatformTurn rotates the platform plate by half a turn and reorders its joints to match.
	// Nil means true.
	PlatformTurn   *bool   `json:"platform_turn,omitempty"`
	ShaftDistance  float64 `json:"shaft_distance"`
	AnchorDistance float64 `json:"anchor_distance"`
}

func (cfg HexagonalConfig) withDefaults() HexagonalConfig {
	cfg.Config = cfg.Config.withDefaults()
	defaultIfZero(&cfg.BaseRadius, DefaultBaseRadius)
	defaultIfZero(&cfg.BaseRadiusOuter, DefaultBaseRadiusOuter)
	defaultIfZero(&cfg.PlatformRadius, DefaultPlatformRadius)
	defaultIfZero(&cfg.PlatformRadiusOuter, DefaultPlatformRadiusOuter)
	defaultIfZero(&cfg.ShaftDistance, DefaultShaftDistance)
	defaultIfZero(&cfg.AnchorDistance, DefaultAnchorDistance)
	if cfg.PlatformTurn == nil {
		turn := true
		cfg.PlatformTurn = &turn
	}
	return cfg
}

// Validate ensures all parts of the config are valid.
func (cfg HexagonalConfig) Validate(path string) error {
	if err := cfg.Config.Validate(path); err != nil {
		return err
	}
	return validatePositive(path, map[string]float64{
		"base_radius":           cfg.BaseRadius,
		"base_radius_outer":     cfg.BaseRadiusOuter,
		"platform_radius":       cfg.PlatformRadius,
		"platform_radius_outer": cfg.PlatformRadiusOuter,
	})
}

// CircularConfig describes a platform whose joints sit on two circles.
type CircularConfig struct {
	Config

	BaseRadius     float64 `json:"base_radius"`
	PlatformRadius float64 `json:"platform_radius"`
	// ShaftDistance and AnchorDistance are arc lengths separating the two joints of a pair.
	ShaftDistance  float64 `json:"shaft_distance"`
	AnchorDistance float64 `json:"anchor_distance"`
}

func (cfg CircularConfig) withDefaults() CircularConfig {
	cfg.Config = cfg.Config.withDefaults()
	defaultIfZero(&cfg.BaseRadius, DefaultBaseRadius)
	defaultIfZero(&cfg.PlatformRadius, DefaultPlatformRadius)
	defaultIfZero(&cfg.ShaftDistance, DefaultShaftDistance)
	defaultIfZero(&cfg.AnchorDistance, DefaultAnchorDistance)
	return cfg
}

// Validate ensures all parts of the config are valid.
func (cfg CircularConfig) Validate(path string) error {
	if err := cfg.Config.Validate(path); err != nil {
		return err
	}
	return validatePositive(path, map[string]float64{
		"base_radius":     cfg.BaseRadius,
		"platform_radius": cfg.PlatformRadius,
	})
}

func defaultIfZero(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func validatePositive(path string, fields map[string]float64) error {
	for _, name := range []string{"base_radius", "base_radius_outer", "platform_radius", "platform_radius_outer"} {
		v, ok := fields[name]
		if ok && !(v > 0) {
			return utils.NewConfigValidationError(path, errors.Wrapf(ErrInvalidConfig, "%s must be positive, got %v", name, v))
		}
	}
	return nil
}

// Params selects a plate shape and carries the configuration for it. An empty shape is
// hexagonal.
type Params struct {
	Shape     Shape
	Hexagonal HexagonalConfig
	Circular  CircularConfig
}

// Build builds the geometry for the selected shape.
func Build(p Params) (*Geometry, error) {
	switch p.Shape {
	case ShapeHexagonal, "":
		return BuildHexagonal(p.Hexagonal)
	case ShapeCircular:
		return BuildCircular(p.Circular)
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "unknown shape %q", p.Shape)
	}
}
