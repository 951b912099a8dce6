package session

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/sim"
)

// advance moves the mock clock and yields so the playback goroutine can
// consume the ticks it fired.
func advance(mock *clock.Mock, d time.Duration) {
	mock.Add(d)
	time.Sleep(2 * time.Millisecond)
}

// captureSink collects the commands a playback executes.
type captureSink struct {
	mu   sync.Mutex
	cmds []command.Command
}

func (s *captureSink) sink(cmd command.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmd)
}

func (s *captureSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cmds)
}

func (s *captureSink) all() []command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]command.Command(nil), s.cmds...)
}

func waitDone(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback never finished")
	}
}

func TestPlayRejectsEmptyRun(t *testing.T) {
	p := newPlayer(clock.NewMock())
	err := p.Play(Run{Name: "empty"}, func(command.Command) {})
	if !errors.Is(err, ErrEmptyRun) {
		t.Errorf("got %v, want ErrEmptyRun", err)
	}
}

func TestPlayRejectsConcurrentPlayback(t *testing.T) {
	mock := clock.NewMock()
	p := newPlayer(mock)
	run := Run{Commands: []command.Recorded{{Timestamp: 1, Command: command.NewDrive(100, 0)}}}

	if err := p.Play(run, func(command.Command) {}); err != nil {
		t.Fatalf("first play: %v", err)
	}
	if err := p.Play(run, func(command.Command) {}); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("second play: got %v, want ErrAlreadyPlaying", err)
	}

	p.Stop()
	waitDone(t, p)
	if p.Playing() {
		t.Error("still playing after Stop")
	}
}

func TestPlaybackNeverExecutesEarly(t *testing.T) {
	mock := clock.NewMock()
	p := newPlayer(mock)
	run := Run{Commands: []command.Recorded{
		{Timestamp: 0.1, Command: command.NewDrive(1, 0)},
		{Timestamp: 0.3, Command: command.NewDrive(2, 0)},
		{Timestamp: 0.3, Command: command.NewDrive(3, 0)},
		{Timestamp: 0.9, Command: command.NewDrive(4, 0)},
	}}

	var cs captureSink
	if err := p.Play(run, cs.sink); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond) // let the scheduler arm its ticker

	advance(mock, 80*time.Millisecond)
	if n := cs.len(); n != 0 {
		t.Fatalf("%d commands executed at t=0.08, want 0", n)
	}

	advance(mock, 20*time.Millisecond)
	if n := cs.len(); n != 1 {
		t.Fatalf("%d commands executed at t=0.1, want 1", n)
	}

	advance(mock, 180*time.Millisecond)
	if n := cs.len(); n != 1 {
		t.Fatalf("%d commands executed at t=0.28, want 1", n)
	}

	// Both t=0.3 commands come due on the same tick, in index order.
	advance(mock, 40*time.Millisecond)
	if n := cs.len(); n != 3 {
		t.Fatalf("%d commands executed at t=0.32, want 3", n)
	}

	advance(mock, 560*time.Millisecond)
	if n := cs.len(); n != 3 {
		t.Fatalf("%d commands executed at t=0.88, want 3", n)
	}

	advance(mock, 40*time.Millisecond)
	waitDone(t, p)

	got := cs.all()
	for i, cmd := range got {
		if cmd.Speed != float64(i+1) {
			t.Errorf("execution %d was speed=%v, want %v", i, cmd.Speed, i+1)
		}
	}
	if p.Playing() {
		t.Error("still playing after the buffer was exhausted")
	}
}

func TestStopHaltsMidPlayback(t *testing.T) {
	mock := clock.NewMock()
	p := newPlayer(mock)
	run := Run{Commands: []command.Recorded{
		{Timestamp: 0.1, Command: command.NewDrive(1, 0)},
		{Timestamp: 5.0, Command: command.NewDrive(2, 0)},
	}}

	var cs captureSink
	if err := p.Play(run, cs.sink); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	advance(mock, 120*time.Millisecond)
	if n := cs.len(); n != 1 {
		t.Fatalf("%d commands before Stop, want 1", n)
	}

	p.Stop()
	waitDone(t, p)
	if p.Progress() != 1 {
		t.Errorf("progress=%d after Stop, want 1", p.Progress())
	}

	advance(mock, 10*time.Second)
	if n := cs.len(); n != 1 {
		t.Errorf("%d commands after Stop, want 1", n)
	}
}

func TestCursorFaultAbortsPlayback(t *testing.T) {
	mock := clock.NewMock()
	p := newPlayer(mock)
	run := Run{Commands: []command.Recorded{
		{Timestamp: 10, Command: command.NewDrive(1, 0)},
		{Timestamp: 20, Command: command.NewDrive(2, 0)},
	}}

	if err := p.Play(run, func(command.Command) {}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.cursor = 99
	p.mu.Unlock()

	advance(mock, 20*time.Millisecond)
	waitDone(t, p)

	select {
	case err := <-p.Faults():
		if !errors.Is(err, ErrCursorOutOfRange) {
			t.Errorf("fault %v, want ErrCursorOutOfRange", err)
		}
	default:
		t.Fatal("no fault reported for a corrupted cursor")
	}
	if p.Playing() {
		t.Error("still playing after fault")
	}
}

// TestRecordReplayRoundTrip drives one engine live while recording, then
// replays the recording into a second engine tick-for-tick and checks
// the two end up in the same state.
func TestRecordReplayRoundTrip(t *testing.T) {
	mock := clock.NewMock()
	script := map[int]command.Command{
		0:  command.NewDrive(150, 0),
		10: command.NewDrive(150, 60),
		25: command.NewArm(command.Arm1, 80),
	}
	const ticks = 40

	rec := newRecorder(mock)
	rec.Start("loop")
	live := sim.New(800, 600)
	var liveSnap sim.Snapshot
	for i := 0; i < ticks; i++ {
		// Commands land mid-interval, as they do under interactive use.
		mock.Add(10 * time.Millisecond)
		if cmd, ok := script[i]; ok {
			live.SetTarget(cmd)
			rec.Append(cmd)
		}
		mock.Add(10 * time.Millisecond)
		liveSnap = live.Tick()
	}
	rec.Stop()

	replay := sim.New(800, 600)
	p := newPlayer(mock)
	if err := p.Play(Run{Name: "loop", Commands: rec.Commands()}, replay.SetTarget); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var replaySnap sim.Snapshot
	for i := 0; i < ticks; i++ {
		advance(mock, 20*time.Millisecond)
		_ = p.Progress() // synchronize with the scheduler before ticking
		replaySnap = replay.Tick()
	}

	if math.Abs(liveSnap.X-400) < 1 {
		t.Fatal("live run never moved; the scenario is too weak to compare")
	}
	fields := []struct {
		name       string
		live, back float64
	}{
		{"x", liveSnap.X, replaySnap.X},
		{"y", liveSnap.Y, replaySnap.Y},
		{"heading", liveSnap.Heading, replaySnap.Heading},
		{"arm1", liveSnap.Arm1Angle, replaySnap.Arm1Angle},
		{"speed", liveSnap.Speed.Actual, replaySnap.Speed.Actual},
		{"turn", liveSnap.Turn.Actual, replaySnap.Turn.Actual},
	}
	for _, f := range fields {
		if math.Abs(f.live-f.back) > 1e-9 {
			t.Errorf("%s diverged: live %v, replay %v", f.name, f.live, f.back)
		}
	}
}

// TestSavedRunScenario persists a short run, loads it back and replays
// it into a fresh engine: a drive command at t=0 and an arm command at
// t=0.5 must both have visibly acted on the pose by t=0.6.
func TestSavedRunScenario(t *testing.T) {
	store := NewStore(t.TempDir())
	run := Run{
		Name:      "scenario",
		Timestamp: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		Commands: []command.Recorded{
			{Timestamp: 0, Command: command.NewDrive(100, 0)},
			{Timestamp: 0.5, Command: command.NewArm(command.Arm1, 50)},
		},
	}
	if err := store.Save(run); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load("scenario")
	if err != nil {
		t.Fatal(err)
	}

	mock := clock.NewMock()
	engine := sim.New(800, 600)
	p := newPlayer(mock)
	if err := p.Play(loaded, engine.SetTarget); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var snap sim.Snapshot
	for i := 0; i < 30; i++ { // 0.6 s of playback
		advance(mock, 20*time.Millisecond)
		_ = p.Progress()
		snap = engine.Tick()
	}
	waitDone(t, p)

	if snap.X <= 401 {
		t.Errorf("x=%v after 0.6s of forward drive, want past 401", snap.X)
	}
	if snap.Arm1Angle <= 0.05 {
		t.Errorf("arm1 angle=%v, want the t=0.5 arm command to have acted", snap.Arm1Angle)
	}
}
