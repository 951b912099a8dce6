// Package command defines the typed control commands sent to the robot
// and their compact JSON wire encoding.
package command

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Kind identifies the command variant. The values double as the wire
// "type" field understood by the hub program.
type Kind string

const (
	Drive Kind = "drive"
	Arm1  Kind = "arm1"
	Arm2  Kind = "arm2"
)

// Command is a single control intent: either a drive command (speed in
// mm/s, turn rate in deg/s) or an arm command (speed in deg/s). TurnRate
// is meaningful only for drive commands.
type Command struct {
	Kind     Kind
	Speed    float64
	TurnRate float64
}

// NewDrive returns a drive command.
func NewDrive(speed, turnRate float64) Command {
	return Command{Kind: Drive, Speed: speed, TurnRate: turnRate}
}

// NewArm returns an arm command for Arm1 or Arm2.
func NewArm(which Kind, speed float64) Command {
	return Command{Kind: which, Speed: speed}
}

// Validate reports whether the command is well formed: a known kind and
// finite field values.
func (c Command) Validate() error {
	switch c.Kind {
	case Drive, Arm1, Arm2:
	default:
		return fmt.Errorf("unknown command kind %q", string(c.Kind))
	}
	for _, v := range []float64{c.Speed, c.TurnRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value in %s command", string(c.Kind))
		}
	}
	return nil
}

// IsZero reports whether the command requests no motion.
func (c Command) IsZero() bool {
	return c.Speed == 0 && c.TurnRate == 0
}

// MarshalJSON encodes the command as the compact document sent to the
// hub: {"type":"drive","speed":...,"turn_rate":...} for drive commands,
// {"type":"arm1","speed":...} for arm commands.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Kind == Drive {
		return json.Marshal(struct {
			Type     string  `json:"type"`
			Speed    float64 `json:"speed"`
			TurnRate float64 `json:"turn_rate"`
		}{string(c.Kind), c.Speed, c.TurnRate})
	}
	return json.Marshal(struct {
		Type  string  `json:"type"`
		Speed float64 `json:"speed"`
	}{string(c.Kind), c.Speed})
}

// UnmarshalJSON decodes the wire form. Decoding is deliberately
// tolerant: missing or mistyped fields become zero values so a corrupted
// recording degrades to a no-op instead of failing the whole document.
func (c *Command) UnmarshalJSON(data []byte) error {
	*c = Command{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	c.Kind = Kind(stringField(raw, "type"))
	c.Speed = floatField(raw, "speed")
	c.TurnRate = floatField(raw, "turn_rate")
	return nil
}

// String renders the command for status logs.
func (c Command) String() string {
	switch c.Kind {
	case Drive:
		var moves []string
		if c.Speed > 0 {
			moves = append(moves, "Forward")
		} else if c.Speed < 0 {
			moves = append(moves, "Backward")
		}
		if c.TurnRate > 0 {
			moves = append(moves, "Turn Right")
		} else if c.TurnRate < 0 {
			moves = append(moves, "Turn Left")
		}
		if len(moves) == 0 {
			return "Drive: Stopped"
		}
		return fmt.Sprintf("Drive: %s (speed=%g, turn=%g)", strings.Join(moves, " + "), c.Speed, c.TurnRate)
	case Arm1, Arm2:
		dir := "Stop"
		if c.Speed > 0 {
			dir = "Up"
		} else if c.Speed < 0 {
			dir = "Down"
		}
		return fmt.Sprintf("%s: %s (speed=%g)", strings.ToUpper(string(c.Kind)), dir, c.Speed)
	}
	return fmt.Sprintf("Unknown command %q", string(c.Kind))
}

// Recorded is a command captured during a recording session, stamped
// with seconds elapsed since the recording started. Within a recording,
// timestamps are non-decreasing in append order.
type Recorded struct {
	Timestamp float64 `json:"timestamp"`
	Command   Command `json:"command"`
}

// UnmarshalJSON applies the same tolerant decoding as Command.
func (r *Recorded) UnmarshalJSON(data []byte) error {
	*r = Recorded{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	r.Timestamp = floatField(raw, "timestamp")
	if cmd, ok := raw["command"]; ok {
		_ = r.Command.UnmarshalJSON(cmd)
	}
	return nil
}

// ConfigPayload is the configuration document pushed to the hub after
// connecting, mirroring the drive-base parameters it needs to set up
// its motors.
type ConfigPayload struct {
	AxleTrack            float64 `json:"axle_track"`
	WheelDiameter        float64 `json:"wheel_diameter"`
	StraightSpeed        float64 `json:"straight_speed"`
	StraightAcceleration float64 `json:"straight_acceleration"`
	TurnRate             float64 `json:"turn_rate"`
	TurnAcceleration     float64 `json:"turn_acceleration"`
}

// MarshalJSON adds the wire "type" discriminator.
func (p ConfigPayload) MarshalJSON() ([]byte, error) {
	type alias ConfigPayload
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{"config", alias(p)})
}

func stringField(raw map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := raw[key]; ok {
		_ = json.Unmarshal(v, &s)
	}
	return s
}

func floatField(raw map[string]json.RawMessage, key string) float64 {
	var f float64
	if v, ok := raw[key]; ok {
		if err := json.Unmarshal(v, &f); err != nil {
			return 0
		}
	}
	return f
}
