// Package config reads rig descriptions from JSON or YAML files.
package config

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/stewart-rig/stewart/animation"
	"github.com/stewart-rig/stewart/path"
	"github.com/stewart-rig/stewart/platform"
	"github.com/stewart-rig/stewart/projection"
	"github.com/stewart-rig/stewart/servo"
	"github.com/stewart-rig/stewart/trajectory"
	"github.com/stewart-rig/stewart/utils"
)

// Config describes a rig: its platform, an optional wall to draw on, its servos and its
// drawings.
type Config struct {
	ConfigFilePath string `json:"-"`

	Platform     Platform            `json:"platform"`
	Projection   *Projection         `json:"projection,omitempty"`
	Servos       []servo.Calibration `json:"servos,omitempty"`
	Trajectories []Trajectory        `json:"trajectories,omitempty"`
	// Initial is the trajectory name or key played first.
	Initial string `json:"initial,omitempty"`
}

// Validate checks every section and reports all problems found.
func (c *Config) Validate() error {
	var err error
	if _, pErr := c.Platform.Geometry(); pErr != nil {
		err = multierr.Combine(err, pErr)
	}
	if c.Projection != nil {
		err = multierr.Combine(err, c.Projection.Validate("projection"))
	}
	if len(c.Servos) > 0 {
		if _, sErr := servo.NewCalibrations(c.Servos); sErr != nil {
			err = multierr.Combine(err, sErr)
		}
	}
	seen := map[string]bool{}
	for i := range c.Trajectories {
		tr := &c.Trajectories[i]
		trPath := fmt.Sprintf("trajectories.%d", i)
		if seen[tr.Name] {
			err = multierr.Combine(err, utils.NewConfigValidationError(trPath, errors.Errorf("duplicate name %q", tr.Name)))
		}
		seen[tr.Name] = true
		err = multierr.Combine(err, tr.Validate(trPath))
	}
	// next may name any drawing in the file, wherever it is defined, or a built-in motion
	for _, d := range animation.Builtins() {
		seen[d.Name] = true
	}
	for i := range c.Trajectories {
		tr := &c.Trajectories[i]
		if tr.Next != "" && !seen[tr.Next] {
			err = multierr.Combine(err, utils.NewConfigValidationError(fmt.Sprintf("trajectories.%d", i),
				errors.Wrapf(animation.ErrUnknownTrajectory, "next %q", tr.Next)))
		}
	}
	return err
}

// Calibrations returns the servo calibrations, or nil when none are configured.
func (c *Config) Calibrations() (*servo.Calibrations, error) {
	if len(c.Servos) == 0 {
		return nil, nil
	}
	return servo.NewCalibrations(c.Servos)
}

// Platform selects the plate shape. Attributes hold the shape's fields, named as in
// platform.HexagonalConfig or platform.CircularConfig.
type Platform struct {
	Shape      string                 `json:"shape"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Params decodes the attributes for the selected shape.
func (p *Platform) Params() (platform.Params, error) {
	params := platform.Params{Shape: platform.Shape(p.Shape)}
	var target interface{}
	switch params.Shape {
	case platform.ShapeHexagonal, "":
		target = &params.Hexagonal
	case platform.ShapeCircular:
		target = &params.Circular
	default:
		return params, utils.NewConfigValidationError("platform", errors.Wrapf(platform.ErrInvalidConfig, "unknown shape %q", p.Shape))
	}
	if err := decode(p.Attributes, target); err != nil {
		return params, utils.NewConfigValidationError("platform.attributes", err)
	}
	return params, nil
}

// Geometry decodes and builds the platform.
func (p *Platform) Geometry() (*platform.Geometry, error) {
	params, err := p.Params()
	if err != nil {
		return nil, err
	}
	return platform.Build(params)
}

// Projection modes.
const (
	ProjectionNone = "none"
	ProjectionWall = "wall"
)

// Projection selects whether drawings are traced on a wall by aiming a laser.
type Projection struct {
	Mode string `json:"mode"`
	projection.Config
}

// Validate checks the mode and, for walls, the wall placement.
func (p *Projection) Validate(path string) error {
	switch p.Mode {
	case "", ProjectionNone:
		return nil
	case ProjectionWall:
		return p.Config.Validate(path)
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown mode %q", p.Mode))
	}
}

// Wall returns the wall placement, or nil when projection is off.
func (p *Projection) Wall() *projection.Config {
	if p == nil || p.Mode != ProjectionWall {
		return nil
	}
	cfg := p.Config
	return &cfg
}

// Plane names accepted in trajectory configs.
const (
	PlaneXY = "xy"
	PlaneYZ = "yz"
)

// Trajectory is a named drawing given as SVG path data.
type Trajectory struct {
	Name string `json:"name"`
	// Key is an optional shortcut that starts the drawing.
	Key  string `json:"key,omitempty"`
	Path string `json:"path"`
	// Box is the source area mapped onto the drawing window; it defaults to the drawing bounds.
	Box      *path.Box `json:"box,omitempty"`
	Size     float64   `json:"size,omitempty"`
	Speed    float64   `json:"speed,omitempty"`
	Plane    string    `json:"plane,omitempty"`
	Flatness float64   `json:"flatness,omitempty"`
	Next     string    `json:"next,omitempty"`
}

// Validate parses the drawing and checks its options.
func (t *Trajectory) Validate(path string) error {
	if t.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	segments, err := t.Segments()
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	opts, err := t.Options(segments)
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if err := opts.WithDefaults().Validate(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Segments parses the path data.
func (t *Trajectory) Segments() ([]path.Segment, error) {
	if t.Path == "" {
		return nil, errors.New(`"path" is required`)
	}
	return path.Parse(t.Path)
}

// Options returns the build options for the drawing's segments.
func (t *Trajectory) Options(segments []path.Segment) (trajectory.Options, error) {
	opts := trajectory.Options{
		Size:     t.Size,
		Speed:    t.Speed,
		Flatness: t.Flatness,
	}
	switch t.Plane {
	case "", PlaneXY:
		opts.Plane = trajectory.PlaneXY
	case PlaneYZ:
		opts.Plane = trajectory.PlaneYZ
	default:
		return opts, errors.Errorf("unknown plane %q", t.Plane)
	}
	if t.Box != nil {
		opts.Box = *t.Box
		return opts, nil
	}
	var start r2.Point
	if len(segments) > 0 {
		start = segments[0].To
	}
	box, err := path.Bounds(start, segments)
	if err != nil {
		return opts, err
	}
	opts.Box = box
	return opts, nil
}
