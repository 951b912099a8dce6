// Package teleop runs the live control pipeline: key intents become
// commands, commands are calibration-compensated and routed to the hub
// or the simulator, and a fixed-rate loop publishes telemetry states.
package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/hub"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
	"github.com/Rani367/CodLess-sub002/pkg/session"
	"github.com/Rani367/CodLess-sub002/pkg/sim"
)

// Default driving area handed to the simulator.
const (
	defaultAreaWidth  = 800.0
	defaultAreaHeight = 600.0
)

// State is one telemetry frame published by the control loop.
type State struct {
	Snapshot  sim.Snapshot
	Hub       hub.State
	Recording bool
	Playing   bool
	Timestamp time.Time
}

// Controller owns the control pipeline. Every command, live or
// replayed, passes through Execute's compensation and routing; the
// recorder taps the live path only and always captures the command as
// issued, before compensation, so a run replays identically after the
// calibration changes.
type Controller struct {
	cfg robot.Config
	clk clock.Clock

	hub      *hub.Controller
	recorder *session.Recorder
	player   *session.Player

	mu      sync.Mutex
	engine  *sim.Engine
	dev     bool
	running bool

	stateCh chan State
	logCh   chan string
}

// NewController builds a controller over a validated configuration.
// hubCtl may be nil for simulator-only use.
func NewController(cfg robot.Config, hubCtl *hub.Controller) (*Controller, error) {
	return newController(cfg, hubCtl, clock.New())
}

func newController(cfg robot.Config, hubCtl *hub.Controller, clk clock.Clock) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid robot config: %w", err)
	}

	return &Controller{
		cfg:      cfg,
		clk:      clk,
		hub:      hubCtl,
		recorder: session.NewRecorder(),
		player:   session.NewPlayer(),
		engine:   sim.New(defaultAreaWidth, defaultAreaHeight),
		stateCh:  make(chan State, 1),
		logCh:    make(chan string, 10),
	}, nil
}

// States returns a channel that receives telemetry frames.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() robot.Config {
	return c.cfg
}

// Recorder exposes the session recorder for undo/redo from the UI.
func (c *Controller) Recorder() *session.Recorder {
	return c.recorder
}

// Player exposes the playback scheduler for Done/Faults observation.
func (c *Controller) Player() *session.Player {
	return c.player
}

// SetDeveloperMode routes commands to the simulator instead of the hub.
func (c *Controller) SetDeveloperMode(on bool) {
	c.mu.Lock()
	c.dev = on
	c.mu.Unlock()
	if on {
		c.log("Developer mode on: commands go to the simulator")
	} else {
		c.log("Developer mode off: commands go to the hub")
	}
}

// DeveloperMode reports whether the simulator is the command sink.
func (c *Controller) DeveloperMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev
}

// Execute runs one live command through the pipeline: validate,
// compensate, route, then record the original.
func (c *Controller) Execute(cmd command.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c.dispatch(c.cfg.Calibration.Compensate(cmd))
	if c.recorder.Recording() {
		c.recorder.Append(cmd)
	}
	return nil
}

// playbackSink is the replay path: same compensation and routing as
// Execute but never recorded, so playing back cannot grow the buffer.
func (c *Controller) playbackSink(cmd command.Command) {
	c.dispatch(c.cfg.Calibration.Compensate(cmd))
}

// dispatch feeds the simulator (it always tracks commanded motion, so
// telemetry stays live) and forwards to the hub unless in developer
// mode.
func (c *Controller) dispatch(cmd command.Command) {
	c.mu.Lock()
	c.engine.SetTarget(cmd)
	dev := c.dev
	c.mu.Unlock()

	if dev || c.hub == nil {
		return
	}
	if c.hub.State() != hub.Connected {
		return
	}
	if err := c.hub.SendCommand(cmd); err != nil {
		c.log("Send failed: %v", err)
	}
}

// PushConfig writes the drive-base configuration to the connected hub.
func (c *Controller) PushConfig() error {
	if c.hub == nil {
		return fmt.Errorf("no hub attached")
	}
	return c.hub.SendConfig(c.cfg)
}

// StartRecording clears any previous buffer and begins capturing.
func (c *Controller) StartRecording(name string) {
	c.recorder.Start(name)
	c.log("Recording %q", name)
}

// StopRecording freezes the buffer and returns the number of captured
// commands.
func (c *Controller) StopRecording() int {
	c.recorder.Stop()
	n := c.recorder.Len()
	c.log("Recording stopped: %d commands", n)
	return n
}

// Recording reports whether live commands are being captured.
func (c *Controller) Recording() bool {
	return c.recorder.Recording()
}

// Run packages the current recording as a saved-run document under the
// controller's configuration.
func (c *Controller) Run() session.Run {
	return session.Run{
		Name:      c.recorder.Name(),
		Timestamp: c.clk.Now(),
		Config:    c.cfg,
		Commands:  c.recorder.Commands(),
	}
}

// Play replays a saved run through the playback path.
func (c *Controller) Play(run session.Run) error {
	if err := c.player.Play(run, c.playbackSink); err != nil {
		return err
	}
	c.log("Replaying %q (%d commands)", run.Name, len(run.Commands))
	return nil
}

// StopPlayback halts a running replay.
func (c *Controller) StopPlayback() {
	c.player.Stop()
}

// SetBounds resizes the simulated driving area.
func (c *Controller) SetBounds(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.SetBounds(width, height)
}

// ResetSimulation recenters the simulated robot.
func (c *Controller) ResetSimulation() {
	c.mu.Lock()
	c.engine.Reset()
	c.mu.Unlock()
	c.log("Simulation reset")
}

// Snapshot returns the current simulated state without advancing it.
func (c *Controller) Snapshot() sim.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Snapshot()
}

// Start begins the fixed-rate control loop. It blocks until the context
// is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Control loop started at %.0f Hz", 1/sim.Step)

	ticker := c.clk.Ticker(time.Duration(sim.Step * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.log("Control loop stopped")
			return ctx.Err()
		case <-ticker.C:
			c.step()
		}
	}
}

func (c *Controller) step() {
	c.mu.Lock()
	snap := c.engine.Tick()
	c.mu.Unlock()

	hubState := hub.Disconnected
	if c.hub != nil {
		hubState = c.hub.State()
	}

	c.sendState(State{
		Snapshot:  snap,
		Hub:       hubState,
		Recording: c.recorder.Recording(),
		Playing:   c.player.Playing(),
		Timestamp: c.clk.Now(),
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", c.clk.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}
