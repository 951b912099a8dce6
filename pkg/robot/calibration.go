package robot

import (
	"github.com/Rani367/CodLess-sub002/pkg/command"
)

// Calibration holds per-robot correction factors derived by the
// calibration workflow. Valid gates whether Compensate does anything;
// Quality is the 0-100 score reported when the factors were measured.
type Calibration struct {
	LeftMotorSpeedFactor    float64 `json:"left_motor_speed_factor"`
	RightMotorSpeedFactor   float64 `json:"right_motor_speed_factor"`
	TurnAccuracyFactor      float64 `json:"turn_accuracy_factor"`
	StraightDriftCorrection float64 `json:"straight_drift_correction"`
	Quality                 float64 `json:"quality"`
	Valid                   bool    `json:"valid"`
}

// Compensate adjusts a drive command using the stored correction
// factors. Arm commands and commands without valid calibration pass
// through unchanged. The transform is pure: the input command is not
// modified.
//
// Speed is scaled by the average of the two per-side factors. A
// non-zero turn rate is scaled by the turn accuracy factor; when
// driving straight (zero turn rate at non-zero speed) the stored drift
// correction is injected as a small constant turn rate instead.
func (c Calibration) Compensate(cmd command.Command) command.Command {
	if !c.Valid || cmd.Kind != command.Drive {
		return cmd
	}

	out := cmd
	out.Speed = cmd.Speed * (c.LeftMotorSpeedFactor + c.RightMotorSpeedFactor) / 2

	switch {
	case cmd.TurnRate != 0:
		out.TurnRate = cmd.TurnRate * c.TurnAccuracyFactor
	case cmd.Speed != 0:
		out.TurnRate = c.StraightDriftCorrection
	}
	return out
}
