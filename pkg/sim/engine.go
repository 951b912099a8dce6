// Package sim simulates the robot's motion so commands can be tested
// without hardware. The model applies bounded-jerk acceleration, motor
// lag, friction and inertia at a fixed 20 ms step.
package sim

import (
	"math"

	"github.com/Rani367/CodLess-sub002/pkg/command"
)

// Step is the fixed integration step in seconds.
const Step = 0.02

// Physics design parameters. These are fixed characteristics of the
// simulated robot, not user configuration.
const (
	accelGain       = 15.0
	jerkFactor      = 8.0 // jerk limit = jerkFactor * maxAccel
	maxDriveAccel   = 800.0
	maxTurnAccel    = 600.0
	maxArmAccel     = 1000.0
	frictionCoeff   = 0.05
	motorLag        = 0.03
	inertialDamping = 0.995

	robotMass    = 2.5
	robotInertia = 0.12
	armInertia   = 0.05

	// Input scaling from command units to simulation targets.
	driveInputScale = 1.5
	turnInputScale  = 1.2
	armInputScale   = 1.0

	// Pose integration scaling.
	speedScale = 0.15
	turnScale  = 0.8

	moveEpsilon  = 0.01
	armEpsilon   = 0.1
	armStepScale = 0.3
	armAngleMax  = 90.0

	// Margin kept between the robot and the area bounds.
	boundsMargin = 30.0
)

// Axis is one controlled degree of freedom: the commanded target, the
// currently simulated value and the acceleration working between them.
type Axis struct {
	Target float64
	Actual float64
	Accel  float64
}

// Snapshot is a read-only copy of the simulation state, taken after a
// tick. Collaborators use it for telemetry display.
type Snapshot struct {
	X       float64
	Y       float64
	Heading float64

	Arm1Angle float64
	Arm2Angle float64

	Speed Axis
	Turn  Axis
	Arm1  Axis
	Arm2  Axis

	Ticks uint64
}

// Engine integrates commands into a continuous robot pose. It owns its
// state exclusively; collaborators only ever see Snapshot copies.
type Engine struct {
	width  float64
	height float64

	x       float64
	y       float64
	heading float64

	arm1Angle float64
	arm2Angle float64

	speed Axis
	turn  Axis
	arm1  Axis
	arm2  Axis

	ticks uint64
}

// New returns an engine for a driving area of the given size, with the
// robot centered.
func New(width, height float64) *Engine {
	e := &Engine{width: width, height: height}
	e.Reset()
	return e
}

// SetBounds resizes the driving area and re-clamps the pose.
func (e *Engine) SetBounds(width, height float64) {
	e.width = width
	e.height = height
	e.x = clamp(e.x, boundsMargin, e.width-boundsMargin)
	e.y = clamp(e.y, boundsMargin, e.height-boundsMargin)
}

// Reset centers the pose and zeroes all targets, actuals and
// accelerations. It is idempotent.
func (e *Engine) Reset() {
	e.x = e.width / 2
	e.y = e.height / 2
	e.heading = 0
	e.arm1Angle = 0
	e.arm2Angle = 0
	e.speed = Axis{}
	e.turn = Axis{}
	e.arm1 = Axis{}
	e.arm2 = Axis{}
	e.ticks = 0
}

// SetTarget applies a command to the axis targets. Actual values are
// untouched; they converge over subsequent ticks.
func (e *Engine) SetTarget(cmd command.Command) {
	switch cmd.Kind {
	case command.Drive:
		e.speed.Target = cmd.Speed * driveInputScale
		e.turn.Target = cmd.TurnRate * turnInputScale
	case command.Arm1:
		e.arm1.Target = cmd.Speed * armInputScale
	case command.Arm2:
		e.arm2.Target = cmd.Speed * armInputScale
	}
}

// Tick advances one fixed physics step and returns the new state.
func (e *Engine) Tick() Snapshot {
	e.stepAxis(&e.speed, maxDriveAccel)
	e.stepAxis(&e.turn, maxTurnAccel)
	e.stepAxis(&e.arm1, maxArmAccel)
	e.stepAxis(&e.arm2, maxArmAccel)

	e.stepPose()
	e.stepArms()

	e.ticks++
	return e.Snapshot()
}

// Snapshot returns the current state without advancing it.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		X:         e.x,
		Y:         e.y,
		Heading:   e.heading,
		Arm1Angle: e.arm1Angle,
		Arm2Angle: e.arm2Angle,
		Speed:     e.speed,
		Turn:      e.turn,
		Arm1:      e.arm1,
		Arm2:      e.arm2,
		Ticks:     e.ticks,
	}
}

// stepAxis updates one axis: an S-curve acceleration profile (jerk
// limited, friction and error-dependent damping applied), then velocity
// integration with motor lag and inertial damping.
func (e *Engine) stepAxis(a *Axis, maxAccel float64) {
	err := a.Target - a.Actual

	targetAccel := clamp(err*accelGain, -maxAccel, maxAccel)
	maxJerkChange := jerkFactor * maxAccel * Step
	a.Accel += clamp(targetAccel-a.Accel, -maxJerkChange, maxJerkChange)

	frictionFactor := 1.0 - frictionCoeff*Step
	damping := 0.92 + 0.08*math.Exp(-math.Abs(err)*0.1)
	a.Accel *= frictionFactor * damping

	a.Actual += a.Accel * Step * (1.0 - motorLag)
	a.Actual *= inertialDamping
}

func (e *Engine) stepPose() {
	if math.Abs(e.speed.Actual) <= moveEpsilon && math.Abs(e.turn.Actual) <= moveEpsilon {
		return
	}

	simSpeed := e.speed.Actual * speedScale
	simTurn := e.turn.Actual * turnScale

	momentumFactor := 1.0 / (1.0 + robotMass*0.1)
	inertiaFactor := 1.0 / (1.0 + robotInertia*2.0)

	e.heading += simTurn * Step * inertiaFactor
	e.heading = math.Mod(e.heading, 360)
	if e.heading < 0 {
		e.heading += 360
	}

	rad := e.heading * math.Pi / 180
	e.x += simSpeed * math.Cos(rad) * Step * momentumFactor
	e.y += simSpeed * math.Sin(rad) * Step * momentumFactor

	e.x = clamp(e.x, boundsMargin, e.width-boundsMargin)
	e.y = clamp(e.y, boundsMargin, e.height-boundsMargin)
}

func (e *Engine) stepArms() {
	armMomentum := 1.0 / (1.0 + armInertia*0.8)
	if math.Abs(e.arm1.Actual) > armEpsilon {
		e.arm1Angle += e.arm1.Actual * armStepScale * Step * armMomentum
		e.arm1Angle = clamp(e.arm1Angle, -armAngleMax, armAngleMax)
	}
	if math.Abs(e.arm2.Actual) > armEpsilon {
		e.arm2Angle += e.arm2.Actual * armStepScale * Step * armMomentum
		e.arm2Angle = clamp(e.arm2Angle, -armAngleMax, armAngleMax)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
