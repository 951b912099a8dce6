// Package robot provides the robot's physical configuration and
// calibration compensation.
package robot

import (
	"encoding/json"
	"fmt"
	"os"
)

const DefaultConfigFile = "codless.json"

// Config holds the physical and tuning parameters of the drive base.
// It is persisted as a flat key/value JSON document.
type Config struct {
	AxleTrack            float64 `json:"axle_track"`
	WheelDiameter        float64 `json:"wheel_diameter"`
	LeftMotorPort        string  `json:"left_motor_port"`
	RightMotorPort       string  `json:"right_motor_port"`
	Arm1MotorPort        string  `json:"arm1_motor_port"`
	Arm2MotorPort        string  `json:"arm2_motor_port"`
	StraightSpeed        float64 `json:"straight_speed"`
	StraightAcceleration float64 `json:"straight_acceleration"`
	TurnRate             float64 `json:"turn_rate"`
	TurnAcceleration     float64 `json:"turn_acceleration"`

	Calibration Calibration `json:"calibration,omitzero"`
}

// DefaultConfig returns the stock SPIKE Prime drive base parameters.
func DefaultConfig() Config {
	return Config{
		AxleTrack:            112.0,
		WheelDiameter:        56.0,
		LeftMotorPort:        "A",
		RightMotorPort:       "B",
		Arm1MotorPort:        "C",
		Arm2MotorPort:        "D",
		StraightSpeed:        500.0,
		StraightAcceleration: 250.0,
		TurnRate:             200.0,
		TurnAcceleration:     300.0,
	}
}

// IsCalibrated reports whether the config carries usable calibration data.
func (c *Config) IsCalibrated() bool {
	return c.Calibration.Valid
}

// Validate rejects configurations that must never reach a command sink:
// duplicate or unnamed motor ports and out-of-range physical parameters.
func (c *Config) Validate() error {
	ports := []string{c.LeftMotorPort, c.RightMotorPort, c.Arm1MotorPort, c.Arm2MotorPort}
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p == "" {
			return fmt.Errorf("motor port not set")
		}
		if seen[p] {
			return fmt.Errorf("duplicate motor port %q", p)
		}
		seen[p] = true
	}

	if c.AxleTrack <= 0 || c.WheelDiameter <= 0 {
		return fmt.Errorf("axle track and wheel diameter must be positive")
	}
	profile := map[string]float64{
		"straight_speed":        c.StraightSpeed,
		"straight_acceleration": c.StraightAcceleration,
		"turn_rate":             c.TurnRate,
		"turn_acceleration":     c.TurnAcceleration,
	}
	for name, v := range profile {
		if v <= 0 || v > 2000 {
			return fmt.Errorf("%s out of range: %g", name, v)
		}
	}
	return nil
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
