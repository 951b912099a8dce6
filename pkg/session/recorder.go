// Package session captures timestamped command streams during live
// control, replays them with wall-clock-accurate timing and stores them
// as saved-run documents.
package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Rani367/CodLess-sub002/pkg/command"
)

// historyDepth bounds the undo/redo stacks.
const historyDepth = 20

// Recorder captures commands with their elapsed time since the
// recording started. Timestamps are non-decreasing by construction:
// they come from a monotonic clock read at append time.
type Recorder struct {
	clock clock.Clock

	mu        sync.Mutex
	recording bool
	name      string
	start     time.Time
	buf       []command.Recorded
	undo      [][]command.Recorded
	redo      [][]command.Recorded
}

// NewRecorder returns a recorder using the wall clock.
func NewRecorder() *Recorder {
	return newRecorder(clock.New())
}

func newRecorder(c clock.Clock) *Recorder {
	return &Recorder{clock: c}
}

// Start clears the buffer and begins a new recording under the given
// name.
func (r *Recorder) Start(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	r.name = name
	r.start = r.clock.Now()
	r.buf = nil
	r.undo = nil
	r.redo = nil
}

// Stop freezes the buffer without clearing it.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
}

// Recording reports whether commands are currently captured.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Name returns the name the current recording was started under.
func (r *Recorder) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// Append captures a command at the current elapsed time. It is a no-op
// when not recording. A whole-buffer snapshot is pushed to the undo
// stack before the mutation, and any redo history is invalidated.
func (r *Recorder) Append(cmd command.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}

	r.undo = append(r.undo, append([]command.Recorded(nil), r.buf...))
	if len(r.undo) > historyDepth {
		r.undo = r.undo[len(r.undo)-historyDepth:]
	}
	r.redo = nil

	r.buf = append(r.buf, command.Recorded{
		Timestamp: r.clock.Since(r.start).Seconds(),
		Command:   cmd,
	})
}

// Undo restores the buffer to its state before the latest append.
// Returns false when there is nothing to undo.
func (r *Recorder) Undo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.undo) == 0 {
		return false
	}
	r.redo = append(r.redo, r.buf)
	if len(r.redo) > historyDepth {
		r.redo = r.redo[len(r.redo)-historyDepth:]
	}
	r.buf = r.undo[len(r.undo)-1]
	r.undo = r.undo[:len(r.undo)-1]
	return true
}

// Redo reverses the latest Undo. Returns false when there is nothing to
// redo.
func (r *Recorder) Redo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.redo) == 0 {
		return false
	}
	r.undo = append(r.undo, r.buf)
	if len(r.undo) > historyDepth {
		r.undo = r.undo[len(r.undo)-historyDepth:]
	}
	r.buf = r.redo[len(r.redo)-1]
	r.redo = r.redo[:len(r.redo)-1]
	return true
}

// Len returns the number of captured commands.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Commands returns a copy of the captured buffer.
func (r *Recorder) Commands() []command.Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]command.Recorded(nil), r.buf...)
}
