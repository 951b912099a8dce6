package session

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Rani367/CodLess-sub002/pkg/command"
)

// tickInterval is the playback scheduling quantum.
const tickInterval = 20 * time.Millisecond

var (
	ErrAlreadyPlaying   = errors.New("a playback is already running")
	ErrEmptyRun         = errors.New("run has no commands")
	ErrCursorOutOfRange = errors.New("playback cursor out of range")
)

// Sink receives each command as its timestamp comes due.
type Sink func(command.Command)

// Player replays a recorded command buffer against a sink. On every
// tick it executes, in index order, all commands whose timestamp has
// been reached; it never executes a command early, re-executes one, or
// skips one.
type Player struct {
	clock clock.Clock

	mu      sync.Mutex
	playing bool
	cursor  int
	stop    chan struct{}
	done    chan struct{}

	faults chan error
}

// NewPlayer returns a player using the wall clock.
func NewPlayer() *Player {
	return newPlayer(clock.New())
}

func newPlayer(c clock.Clock) *Player {
	return &Player{
		clock:  c,
		faults: make(chan error, 1),
	}
}

// Play starts replaying the run. It fails if a playback is already
// running or the run is empty. Completion is signaled by Done();
// scheduling faults surface on Faults().
func (p *Player) Play(run Run, sink Sink) error {
	if len(run.Commands) == 0 {
		return ErrEmptyRun
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return ErrAlreadyPlaying
	}
	p.playing = true
	p.cursor = 0
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	stop, done := p.stop, p.done
	p.mu.Unlock()

	start := p.clock.Now()
	go p.loop(run.Commands, sink, start, stop, done)
	return nil
}

func (p *Player) loop(cmds []command.Recorded, sink Sink, start time.Time, stop, done chan struct{}) {
	ticker := p.clock.Ticker(tickInterval)
	defer func() {
		ticker.Stop()
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			cursor := p.cursor
			p.mu.Unlock()

			if cursor < 0 || cursor > len(cmds) {
				p.fault(ErrCursorOutOfRange)
				return
			}

			elapsed := p.clock.Since(start).Seconds()
			for cursor < len(cmds) && cmds[cursor].Timestamp <= elapsed {
				sink(cmds[cursor].Command)
				cursor++
			}

			p.mu.Lock()
			p.cursor = cursor
			p.mu.Unlock()

			if cursor >= len(cmds) {
				return
			}
		}
	}
}

// Progress returns how many commands the current playback has executed.
func (p *Player) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Stop halts a running playback without side effects. Safe to call when
// nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
}

// Playing reports whether a playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Done returns a channel closed when the current playback finishes.
// Returns nil if no playback has been started.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Faults returns the channel scheduling faults are reported on.
func (p *Player) Faults() <-chan error {
	return p.faults
}

func (p *Player) fault(err error) {
	select {
	case p.faults <- err:
	default:
	}
}
