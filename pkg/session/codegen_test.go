package session

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

func TestGenerateCompetitionCodeRejectsEmptyStore(t *testing.T) {
	if _, err := GenerateCompetitionCode(robot.DefaultConfig(), nil); err == nil {
		t.Error("generated a program from zero runs")
	}
}

func TestGenerateCompetitionCodeSetup(t *testing.T) {
	cfg := robot.DefaultConfig()
	runs := []Run{{Name: "solo", Commands: []command.Recorded{
		{Timestamp: 0, Command: command.NewDrive(100, 0)},
	}}}

	code, err := GenerateCompetitionCode(cfg, runs)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"left_motor = Motor(Port.A)",
		"right_motor = Motor(Port.B)",
		"arm1_motor = Motor(Port.C)",
		"arm2_motor = Motor(Port.D)",
		"wheel_diameter=56, axle_track=112",
		"straight_speed=500,",
		"turn_acceleration=300,",
		"selected_run = hub_menu(*range(1, 2))",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated program lacks %q", want)
		}
	}
}

// The command sequence of a run must come out in order, each command
// started, held for the gap to the next one, then stopped.
func TestGenerateCompetitionCodeSequence(t *testing.T) {
	cfg := robot.DefaultConfig()
	runs := []Run{
		{Name: "first run", Commands: []command.Recorded{
			{Timestamp: 0, Command: command.NewDrive(200, 0)},
			{Timestamp: 1.5, Command: command.NewDrive(0, 0)},
			{Timestamp: 2, Command: command.NewArm(command.Arm1, 150)},
			{Timestamp: 2.5, Command: command.NewArm(command.Arm1, 0)},
		}},
		{Name: "second", Commands: []command.Recorded{
			{Timestamp: 0, Command: command.NewDrive(100, -50)},
		}},
	}

	code, err := GenerateCompetitionCode(cfg, runs)
	if err != nil {
		t.Fatal(err)
	}

	got := runBody(t, code, "def run_1():", "def run_2():")
	want := []string{
		`    """first run"""`,
		"    drive_base.drive(200, 0)",
		"    wait(1500)",
		"    drive_base.stop()",
		"    drive_base.stop()",
		"    arm1_motor.run(150)",
		"    wait(500)",
		"    arm1_motor.stop()",
		"    arm1_motor.stop()",
		"    wait(100)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("run_1 body:\n%s\nwant:\n%s",
			strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	if !strings.Contains(code, "drive_base.drive(100, -50)") {
		t.Error("run_2 drive command missing")
	}
	for _, want := range []string{"    1: run_1,", "    2: run_2,"} {
		if !strings.Contains(code, want) {
			t.Errorf("run table lacks %q", want)
		}
	}
}

// runBody returns the non-blank lines between two markers.
func runBody(t *testing.T, code, from, to string) []string {
	t.Helper()
	start := strings.Index(code, from)
	end := strings.Index(code, to)
	if start < 0 || end < 0 || end < start {
		t.Fatalf("markers %q / %q not found in order", from, to)
	}

	var lines []string
	for _, line := range strings.Split(code[start+len(from):end], "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
