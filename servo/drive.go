package servo

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/stewart-rig/stewart/kinematics"
	"github.com/stewart-rig/stewart/platform"
)

// Drive sends a solution to six servos, one per leg. Nothing is sent when any leg is
// infeasible or any command is out of range; otherwise every servo is moved and all move
// failures are reported together.
func Drive(ctx context.Context, servos []Servo, cal *Calibrations, angles kinematics.ServoAngles) error {
	if len(servos) != platform.NumLegs {
		return errors.Errorf("need %d servos, got %d", platform.NumLegs, len(servos))
	}
	if cal == nil {
		return ErrCalibrationMissing
	}
	cmds, err := cal.Commands(angles)
	if err != nil {
		return err
	}
	var moveErr error
	for i, s := range servos {
		if err := s.Move(ctx, cmds[i]); err != nil {
			moveErr = multierr.Combine(moveErr, errors.Wrapf(err, "servo %d", i))
		}
	}
	return moveErr
}
