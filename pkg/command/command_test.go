package command

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestCommand_MarshalWire(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
	}{
		{NewDrive(200, 0), `{"type":"drive","speed":200,"turn_rate":0}`},
		{NewDrive(-150.5, 100), `{"type":"drive","speed":-150.5,"turn_rate":100}`},
		{NewArm(Arm1, 200), `{"type":"arm1","speed":200}`},
		{NewArm(Arm2, -200), `{"type":"arm2","speed":-200}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.cmd)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tt.cmd, err)
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal(%v) = %s, want %s", tt.cmd, data, tt.expected)
		}
	}
}

func TestCommand_UnmarshalTolerant(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Command
	}{
		{"full drive", `{"type":"drive","speed":200,"turn_rate":-100}`, NewDrive(200, -100)},
		{"missing speed", `{"type":"drive","turn_rate":50}`, NewDrive(0, 50)},
		{"mistyped speed", `{"type":"arm1","speed":"fast"}`, NewArm(Arm1, 0)},
		{"empty object", `{}`, Command{}},
		{"not an object", `42`, Command{}},
	}

	for _, tt := range tests {
		var got Command
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.expected)
		}
	}
}

func TestCommand_Validate(t *testing.T) {
	if err := NewDrive(200, 100).Validate(); err != nil {
		t.Errorf("valid drive command rejected: %v", err)
	}
	if err := (Command{Kind: "warp"}).Validate(); err == nil {
		t.Error("unknown kind accepted")
	}
	if err := NewDrive(math.NaN(), 0).Validate(); err == nil {
		t.Error("NaN speed accepted")
	}
	if err := NewArm(Arm2, math.Inf(1)).Validate(); err == nil {
		t.Error("infinite arm speed accepted")
	}
}

func TestRecorded_UnmarshalTolerant(t *testing.T) {
	in := `{"timestamp":1.5,"command":{"type":"drive","speed":100,"turn_rate":0}}`
	var rec Recorded
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Timestamp != 1.5 || rec.Command != NewDrive(100, 0) {
		t.Errorf("got %+v", rec)
	}

	// A mangled entry decodes to a harmless zero command.
	var bad Recorded
	if err := json.Unmarshal([]byte(`{"timestamp":"x","command":7}`), &bad); err != nil {
		t.Fatalf("unmarshal mangled: %v", err)
	}
	if bad.Timestamp != 0 || bad.Command != (Command{}) {
		t.Errorf("mangled entry not zeroed: %+v", bad)
	}
}

func TestConfigPayload_Marshal(t *testing.T) {
	p := ConfigPayload{
		AxleTrack:            112,
		WheelDiameter:        56,
		StraightSpeed:        500,
		StraightAcceleration: 250,
		TurnRate:             200,
		TurnAcceleration:     300,
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"config"`) {
		t.Errorf("missing type discriminator: %s", data)
	}
	if !strings.Contains(string(data), `"axle_track":112`) {
		t.Errorf("missing axle_track: %s", data)
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
	}{
		{NewDrive(200, 100), "Drive: Forward + Turn Right (speed=200, turn=100)"},
		{NewDrive(0, 0), "Drive: Stopped"},
		{NewDrive(-200, 0), "Drive: Backward (speed=-200, turn=0)"},
		{NewArm(Arm1, 200), "ARM1: Up (speed=200)"},
		{NewArm(Arm2, -200), "ARM2: Down (speed=-200)"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.expected {
			t.Errorf("String(%+v) = %q, want %q", tt.cmd, got, tt.expected)
		}
	}
}
