package teleop

import (
	"strings"

	"github.com/Rani367/CodLess-sub002/pkg/command"
)

// Axis values driven by the keyboard.
const (
	keySpeed    = 200.0
	keyTurn     = 100.0
	keyArmSpeed = 200.0
)

// Keymap turns chorded key presses into commands. Holding W and D at
// once yields a single drive command carrying both speed and turn;
// releasing a key returns its axis to zero.
type Keymap struct {
	speed float64
	turn  float64
	arm1  float64
	arm2  float64
}

// Handle processes one key transition. The returned bool is false for
// keys the map does not bind (or for the release of the all-stop key).
func (k *Keymap) Handle(key string, pressed bool) (command.Command, bool) {
	value := func(v float64) float64 {
		if pressed {
			return v
		}
		return 0
	}

	switch strings.ToLower(key) {
	case "w":
		k.speed = value(keySpeed)
	case "s":
		k.speed = value(-keySpeed)
	case "a":
		k.turn = value(-keyTurn)
	case "d":
		k.turn = value(keyTurn)
	case " ", "space":
		if !pressed {
			return command.Command{}, false
		}
		k.speed, k.turn = 0, 0
	case "q":
		k.arm1 = value(keyArmSpeed)
		return command.NewArm(command.Arm1, k.arm1), true
	case "e":
		k.arm1 = value(-keyArmSpeed)
		return command.NewArm(command.Arm1, k.arm1), true
	case "r":
		k.arm2 = value(keyArmSpeed)
		return command.NewArm(command.Arm2, k.arm2), true
	case "f":
		k.arm2 = value(-keyArmSpeed)
		return command.NewArm(command.Arm2, k.arm2), true
	default:
		return command.Command{}, false
	}

	return command.NewDrive(k.speed, k.turn), true
}

// Reset releases every axis.
func (k *Keymap) Reset() {
	*k = Keymap{}
}
