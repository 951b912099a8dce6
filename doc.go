// Package codless provides remote control for a small differential-drive
// robot built around a Pybricks hub.
//
// Commands can be sent to physical hardware over BLE or to a local physics
// simulation, and control sessions can be recorded and replayed with
// wall-clock-accurate timing.
//
// # Installation
//
//	go install github.com/Rani367/CodLess-sub002/cmd/codless@latest
//
// # Usage
//
// Drive the simulated robot (no hardware required):
//
//	codless drive --dev
//
// Or scan for a hub and drive the real robot:
//
//	codless scan
//	codless drive
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/codless: CLI with drive, play, runs, export, config and scan commands
//   - pkg/command: typed robot commands and their wire encoding
//   - pkg/sim: fixed-step physics simulation of the robot
//   - pkg/hub: BLE connection state machine for the Pybricks hub
//   - pkg/session: command recording, playback and saved-run storage
//   - pkg/robot: robot configuration and calibration compensation
//   - pkg/teleop: keyboard teleoperation and command dispatch
//   - pkg/telemetry: HTTP/WebSocket pose telemetry for display clients
package codless
