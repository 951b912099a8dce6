package session

import (
	"fmt"
	"strings"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

// GenerateCompetitionCode renders the saved runs as a standalone
// Pybricks program for autonomous use: the hub menu selects a run and
// the run's commands replay open-loop, each held for the gap to the
// next command in its buffer. No desktop or BLE link is needed once the
// program is on the hub.
func GenerateCompetitionCode(cfg robot.Config, runs []Run) (string, error) {
	if len(runs) == 0 {
		return "", fmt.Errorf("no saved runs to export")
	}

	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("from pybricks.hubs import PrimeHub")
	w("from pybricks.pupdevices import Motor")
	w("from pybricks.parameters import Port, Color")
	w("from pybricks.robotics import DriveBase")
	w("from pybricks.tools import wait, hub_menu")
	w("")
	w("# --- ROBOT SETUP ---")
	w("hub = PrimeHub()")
	w("")
	w("left_motor = Motor(Port.%s)", cfg.LeftMotorPort)
	w("right_motor = Motor(Port.%s)", cfg.RightMotorPort)
	w("drive_base = DriveBase(left_motor, right_motor, wheel_diameter=%g, axle_track=%g)", cfg.WheelDiameter, cfg.AxleTrack)
	w("")
	w("drive_base.settings(")
	w("    straight_speed=%g,", cfg.StraightSpeed)
	w("    straight_acceleration=%g,", cfg.StraightAcceleration)
	w("    turn_rate=%g,", cfg.TurnRate)
	w("    turn_acceleration=%g,", cfg.TurnAcceleration)
	w(")")
	w("")
	w("arm1_motor = Motor(Port.%s)", cfg.Arm1MotorPort)
	w("arm2_motor = Motor(Port.%s)", cfg.Arm2MotorPort)
	w("")
	w("# --- RUN FUNCTIONS ---")
	for i, run := range runs {
		w("def run_%d():", i+1)
		w(`    """%s"""`, run.Name)
		for j, rc := range run.Commands {
			holdMs := 0
			if j+1 < len(run.Commands) {
				holdMs = int((run.Commands[j+1].Timestamp - rc.Timestamp) * 1000)
			}
			emitStep(w, rc.Command, holdMs)
		}
		w("    wait(100)")
		w("")
	}
	w("# --- MAIN EXECUTION ---")
	w("")
	w("runs = {")
	for i := range runs {
		w("    %d: run_%d,", i+1, i+1)
	}
	w("}")
	w("")
	w("selected_run = hub_menu(*range(1, %d))", len(runs)+1)
	w("")
	w("if selected_run in runs:")
	w("    runs[selected_run]()")

	return b.String(), nil
}

// emitStep writes one command as start / hold / stop lines. A zero
// command is a bare stop.
func emitStep(w func(string, ...any), cmd command.Command, holdMs int) {
	switch cmd.Kind {
	case command.Drive:
		if cmd.Speed == 0 && cmd.TurnRate == 0 {
			w("    drive_base.stop()")
			return
		}
		w("    drive_base.drive(%g, %g)", cmd.Speed, cmd.TurnRate)
		if holdMs > 0 {
			w("    wait(%d)", holdMs)
		}
		w("    drive_base.stop()")

	case command.Arm1, command.Arm2:
		motor := "arm1_motor"
		if cmd.Kind == command.Arm2 {
			motor = "arm2_motor"
		}
		if cmd.Speed == 0 {
			w("    %s.stop()", motor)
			return
		}
		w("    %s.run(%g)", motor, cmd.Speed)
		if holdMs > 0 {
			w("    wait(%d)", holdMs)
		}
		w("    %s.stop()", motor)
	}
}
