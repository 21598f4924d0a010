package servo

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/kinematics"
	"github.com/stewart-rig/stewart/platform"
	"github.com/stewart-rig/stewart/utils"
)

var (
	// ErrInvalidLeg is returned when a pose with infeasible legs would be sent to servos.
	ErrInvalidLeg = errors.New("refusing to command infeasible legs")
	// ErrCalibrationMissing is returned when there is not one calibration per leg.
	ErrCalibrationMissing = errors.New("servo calibration missing")
	// ErrCommandRange is returned when a calibrated command falls outside 0-180 degrees.
	ErrCommandRange = errors.New("servo command out of range")
)

// MaxCommand is the largest angle a servo accepts, in degrees.
const MaxCommand = 180

// Calibration maps a horn angle onto one servo's command range:
// command = Midpoint + Direction * Amplitude * angle.
type Calibration struct {
	// Midpoint is the command, in degrees, that holds the horn level.
	Midpoint float64 `json:"midpoint"`
	// Amplitude is command degrees per radian of horn rotation.
	Amplitude float64 `json:"amplitude"`
	// Direction is 1 or -1 depending on how the servo is mounted.
	Direction float64 `json:"direction"`
}

// Validate ensures the calibration is complete.
func (c *Calibration) Validate(path string) error {
	if c.Direction != 1 && c.Direction != -1 {
		return utils.NewConfigValidationError(path, errors.Errorf("direction must be 1 or -1, got %v", c.Direction))
	}
	if !(c.Amplitude > 0) {
		return utils.NewConfigValidationFieldRequiredError(path, "amplitude")
	}
	if c.Midpoint < 0 || c.Midpoint > MaxCommand {
		return utils.NewConfigValidationError(path, errors.Errorf("midpoint must be within [0, %d], got %v", MaxCommand, c.Midpoint))
	}
	return nil
}

// Value returns the unrounded command for angle radians.
func (c Calibration) Value(angle float64) float64 {
	return c.Midpoint + c.Direction*c.Amplitude*angle
}

// Command returns the servo command for angle radians.
func (c Calibration) Command(angle float64) (uint8, error) {
	v := math.Round(c.Value(angle))
	if math.IsNaN(v) || v < 0 || v > MaxCommand {
		return 0, errors.Wrapf(ErrCommandRange, "%.4f rad gives %v", angle, v)
	}
	return uint8(v), nil
}

// Calibrations holds one calibration per leg.
type Calibrations [platform.NumLegs]Calibration

// NewCalibrations validates and collects per-leg calibrations.
func NewCalibrations(cals []Calibration) (*Calibrations, error) {
	if len(cals) != platform.NumLegs {
		return nil, errors.Wrapf(ErrCalibrationMissing, "want %d servos, got %d", platform.NumLegs, len(cals))
	}
	var out Calibrations
	for i := range cals {
		if err := cals[i].Validate(servoPath(i)); err != nil {
			return nil, err
		}
		out[i] = cals[i]
	}
	return &out, nil
}

// Commands converts a solution into servo commands. No commands are returned unless every leg
// is feasible and in range.
func (c *Calibrations) Commands(angles kinematics.ServoAngles) ([platform.NumLegs]uint8, error) {
	var out [platform.NumLegs]uint8
	radians, err := angles.Radians()
	if err != nil {
		return out, errors.Wrap(ErrInvalidLeg, err.Error())
	}
	for i, angle := range radians {
		cmd, err := c[i].Command(angle)
		if err != nil {
			return out, errors.Wrapf(err, "leg %d", i)
		}
		out[i] = cmd
	}
	return out, nil
}

func servoPath(i int) string {
	return fmt.Sprintf("servos.%d", i)
}
