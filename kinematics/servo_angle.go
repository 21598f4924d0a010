package kinematics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/platform"
)

// ErrInvalidLegs is returned when a caller asks for plain numbers from a solution that has
// infeasible legs.
var ErrInvalidLegs = errors.New("pose has infeasible legs")

// LegStatus tells whether a leg's servo angle can be commanded.
type LegStatus int

const (
	// LegValid marks a leg whose angle is reachable and within the servo range.
	LegValid LegStatus = iota
	// LegUnreachable marks a leg whose rod and horn cannot reach the requested platform joint.
	LegUnreachable
	// LegOutOfRange marks a leg whose solved angle falls outside the servo range.
	LegOutOfRange
)

func (s LegStatus) String() string {
	switch s {
	case LegValid:
		return "valid"
	case LegUnreachable:
		return "unreachable"
	case LegOutOfRange:
		return "out of range"
	default:
		return fmt.Sprintf("LegStatus(%d)", int(s))
	}
}

// ServoAngle is one leg's solved horn angle in radians. Angle is NaN unless Status is LegValid.
type ServoAngle struct {
	Angle  float64
	Status LegStatus
}

// Valid reports whether the angle may be sent to a servo.
func (a ServoAngle) Valid() bool {
	return a.Status == LegValid
}

func (a ServoAngle) String() string {
	if !a.Valid() {
		return a.Status.String()
	}
	return fmt.Sprintf("%.4f", a.Angle)
}

func invalidAngle(status LegStatus) ServoAngle {
	return ServoAngle{Angle: math.NaN(), Status: status}
}

// ServoAngles holds one solution per leg.
type ServoAngles [platform.NumLegs]ServoAngle

// Invalid returns the indices of legs that cannot be commanded.
func (a ServoAngles) Invalid() []int {
	var out []int
	for i, angle := range a {
		if !angle.Valid() {
			out = append(out, i)
		}
	}
	return out
}

// AllValid reports whether every leg can be commanded.
func (a ServoAngles) AllValid() bool {
	return len(a.Invalid()) == 0
}

// Radians returns the plain angles, or an error naming the infeasible legs.
func (a ServoAngles) Radians() ([platform.NumLegs]float64, error) {
	var out [platform.NumLegs]float64
	if invalid := a.Invalid(); len(invalid) > 0 {
		return out, errors.Wrapf(ErrInvalidLegs, "legs %v", invalid)
	}
	for i, angle := range a {
		out[i] = angle.Angle
	}
	return out, nil
}
