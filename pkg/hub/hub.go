// Package hub manages the BLE connection to the Pybricks hub: device
// discovery, the connect handshake and the command characteristic used
// to ship commands to the robot.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

const (
	// HubNamePrefix is the advertised-name prefix a device must carry to
	// be accepted as a connection target.
	HubNamePrefix = "Pybricks"

	// CommandCharacteristicUUID identifies the Pybricks command/event
	// characteristic used as the sole command channel.
	CommandCharacteristicUUID = "c5f50002-8280-46da-89f4-6d8051e4aeef"

	// ScanTimeout bounds a discovery pass.
	ScanTimeout = 10 * time.Second
)

var (
	ErrNotConnected = errors.New("not connected to hub")
	ErrNoTarget     = errors.New("no hub discovered; scan first")
	ErrBusy         = errors.New("connection attempt already in progress")

	errCharacteristicMissing = errors.New("command characteristic not found")
)

// State is the connection state of the hub link.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EventKind discriminates controller events.
type EventKind int

const (
	EventHubFound EventKind = iota
	EventStateChanged
	EventError
)

// Event is a one-way status notification from the controller. Hub
// responses and errors never block or retry a send; collaborators
// decide what to do with them.
type Event struct {
	Kind    EventKind
	HubName string
	State   State
	Err     error
}

// Controller owns the transport session. All exported methods are safe
// to call from any goroutine; asynchronous completions are reported on
// Events().
type Controller struct {
	link gattLink

	mu         sync.Mutex
	state      State
	scanning   bool
	stopScan   context.CancelFunc
	target     string
	targetName string
	conn       gattConn
	char       gattCharacteristic

	events chan Event
	logs   chan string
}

// New returns a controller backed by the system BLE adapter.
func New() (*Controller, error) {
	link := newBLELink()
	if err := link.Enable(); err != nil {
		return nil, fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	return newWithLink(link), nil
}

func newWithLink(link gattLink) *Controller {
	return &Controller{
		link:   link,
		events: make(chan Event, 16),
		logs:   make(chan string, 16),
	}
}

// Events returns the channel of asynchronous status events.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Logs returns the channel of human-readable log messages.
func (c *Controller) Logs() <-chan string {
	return c.logs
}

// State returns the current connection state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HubName returns the name of the discovered hub, if any.
func (c *Controller) HubName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetName
}

// ScanForHub begins asynchronous discovery. The first advertised device
// whose name carries the hub prefix becomes the connection target and
// discovery stops; otherwise discovery times out after 10 seconds.
// Calling while a scan is running logs a warning and does nothing.
func (c *Controller) ScanForHub() {
	c.mu.Lock()
	if c.scanning {
		c.mu.Unlock()
		c.log("Already scanning for hubs")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ScanTimeout)
	c.scanning = true
	c.stopScan = cancel
	c.mu.Unlock()

	c.log("Scanning for Pybricks hubs...")

	go func() {
		defer func() {
			cancel()
			c.mu.Lock()
			c.scanning = false
			c.stopScan = nil
			c.mu.Unlock()
		}()

		err := c.link.Scan(ctx, func(a advert) {
			if !strings.HasPrefix(a.Name, HubNamePrefix) {
				return
			}
			c.mu.Lock()
			first := c.target != a.Address
			c.target = a.Address
			c.targetName = a.Name
			c.mu.Unlock()
			if first {
				c.log("Found Pybricks hub: %s", a.Name)
				c.emit(Event{Kind: EventHubFound, HubName: a.Name})
			}
			cancel()
		})
		if err != nil && ctx.Err() == nil {
			c.fail(fmt.Errorf("scan: %w", err))
			return
		}
		c.log("Device discovery finished")
	}()
}

// ConnectToHub opens a link to the previously discovered target and
// performs the service/characteristic handshake asynchronously. The
// returned error covers preconditions only; handshake failures surface
// on Events() and return the controller to Disconnected.
func (c *Controller) ConnectToHub() error {
	c.mu.Lock()
	if c.target == "" {
		c.mu.Unlock()
		return ErrNoTarget
	}
	if c.state != Disconnected {
		c.mu.Unlock()
		return ErrBusy
	}
	c.setStateLocked(Connecting)
	target := c.target
	name := c.targetName
	c.mu.Unlock()

	c.log("Connecting to device: %s", name)

	go c.handshake(target, name)
	return nil
}

func (c *Controller) handshake(target, name string) {
	conn, err := c.link.Connect(target)
	if err != nil {
		c.fail(fmt.Errorf("connect: %w", err))
		return
	}

	c.log("Connected to hub. Discovering services...")
	services, err := conn.Services()
	if err != nil || len(services) == 0 {
		conn.Disconnect()
		if err == nil {
			err = errors.New("no services offered")
		}
		c.fail(fmt.Errorf("service discovery: %w", err))
		return
	}

	chars, err := services[0].Characteristics()
	if err != nil {
		conn.Disconnect()
		c.fail(fmt.Errorf("characteristic discovery: %w", err))
		return
	}

	var cmdChar gattCharacteristic
	for _, ch := range chars {
		if strings.EqualFold(ch.UUID(), CommandCharacteristicUUID) {
			cmdChar = ch
			break
		}
	}
	if cmdChar == nil {
		conn.Disconnect()
		c.fail(errCharacteristicMissing)
		return
	}

	if err := cmdChar.EnableNotifications(c.handleNotification); err != nil {
		c.log("Notifications unavailable: %v", err)
	}

	c.mu.Lock()
	// A disconnect may have raced the handshake; don't resurrect.
	if c.state != Connecting {
		c.mu.Unlock()
		conn.Disconnect()
		return
	}
	c.conn = conn
	c.char = cmdChar
	c.setStateLocked(Connected)
	c.mu.Unlock()

	c.log("Successfully connected to %s", name)
}

// SendCommand encodes the command as its wire document and writes it to
// the command characteristic. Permitted only while Connected.
func (c *Controller) SendCommand(cmd command.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return c.write(data)
}

// SendConfig pushes the drive-base configuration to the hub.
func (c *Controller) SendConfig(cfg robot.Config) error {
	data, err := json.Marshal(command.ConfigPayload{
		AxleTrack:            cfg.AxleTrack,
		WheelDiameter:        cfg.WheelDiameter,
		StraightSpeed:        cfg.StraightSpeed,
		StraightAcceleration: cfg.StraightAcceleration,
		TurnRate:             cfg.TurnRate,
		TurnAcceleration:     cfg.TurnAcceleration,
	})
	if err != nil {
		return err
	}
	return c.write(data)
}

func (c *Controller) write(data []byte) error {
	c.mu.Lock()
	ch := c.char
	ok := c.state == Connected && ch != nil
	c.mu.Unlock()

	if !ok {
		c.log("Not connected to hub or service not ready")
		return ErrNotConnected
	}
	if err := ch.Write(data); err != nil {
		return fmt.Errorf("write characteristic: %w", err)
	}
	return nil
}

// DisconnectFromHub tears down the link. Safe and idempotent from any
// state, including mid-handshake.
func (c *Controller) DisconnectFromHub() {
	c.mu.Lock()
	if c.stopScan != nil {
		c.stopScan()
	}
	conn := c.conn
	c.conn = nil
	c.char = nil
	changed := c.state != Disconnected
	c.setStateLocked(Disconnected)
	c.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	if changed {
		c.log("Disconnected from hub")
	}
}

// fail reports an asynchronous error and returns to Disconnected. No
// automatic reconnection is attempted; retrying is the caller's call.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.char = nil
	c.setStateLocked(Disconnected)
	c.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	c.log("Error: %v", err)
	c.emit(Event{Kind: EventError, Err: err})
}

// handleNotification decodes inbound characteristic data as a textual
// status token. Tokens are informational only.
func (c *Controller) handleNotification(data []byte) {
	// Pybricks prefixes write/event payloads with a single event byte.
	if len(data) > 0 && data[0] < 0x20 {
		data = data[1:]
	}
	token := strings.TrimSpace(string(data))

	switch {
	case token == "rdy":
		c.log("Hub ready for commands")
	case strings.Contains(token, "DRIVE_OK"):
		c.log("Drive command executed")
	case strings.Contains(token, "ARM_OK"):
		c.log("Arm command executed")
	case strings.Contains(token, "CONFIG_OK"):
		c.log("Configuration updated")
	case strings.Contains(token, "CONFIG_ERROR"):
		c.log("Hub rejected configuration")
	case strings.Contains(token, "UNKNOWN_CMD"):
		c.log("Hub did not recognize command")
	case strings.Contains(token, "ERROR"):
		c.log("Hub reported error")
	default:
		if token != "" {
			c.log("HUB: %s", token)
		}
	}
}

// setStateLocked transitions the state and emits the change. Callers
// hold c.mu.
func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.emit(Event{Kind: EventStateChanged, State: s})
}

func (c *Controller) emit(e Event) {
	select {
	case c.events <- e:
	default:
		// Drop if channel full
	}
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logs <- msg:
	default:
		// Drop if channel full
	}
}
