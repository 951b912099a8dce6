package session

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	run := Run{
		Name:      "morning run",
		Timestamp: time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC),
		Config:    robot.DefaultConfig(),
		Commands: []command.Recorded{
			{Timestamp: 0, Command: command.NewDrive(200, 0)},
			{Timestamp: 1.5, Command: command.NewArm(command.Arm2, -100)},
		},
	}
	if err := store.Save(run); err != nil {
		t.Fatal(err)
	}

	// Spaces in the name become underscores on disk.
	if _, err := os.Stat(filepath.Join(dir, "morning_run.json")); err != nil {
		t.Fatalf("run file not where expected: %v", err)
	}

	got, err := store.Load("morning run")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != run.Name || !got.Timestamp.Equal(run.Timestamp) {
		t.Errorf("loaded header %q/%v, want %q/%v", got.Name, got.Timestamp, run.Name, run.Timestamp)
	}
	if !reflect.DeepEqual(got.Commands, run.Commands) {
		t.Errorf("loaded commands %+v, want %+v", got.Commands, run.Commands)
	}
	if got.Config != run.Config {
		t.Errorf("loaded config %+v, want %+v", got.Config, run.Config)
	}
}

func TestStoreRejectsDuplicateName(t *testing.T) {
	store := NewStore(t.TempDir())
	run := Run{Name: "demo"}

	if err := store.Save(run); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(run); err == nil {
		t.Error("saving over an existing run succeeded")
	}
}

func TestStoreRejectsEmptyName(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(Run{Name: "  "}); err == nil {
		t.Error("saving a nameless run succeeded")
	}
}

func TestStoreListSorted(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"bravo", "alpha", "charlie"} {
		if err := store.Save(Run{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("list %v, want %v", names, want)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	names, err := store.List()
	if err != nil || names != nil {
		t.Errorf("got %v, %v for a missing dir, want nil, nil", names, err)
	}
}

func TestStoreCorruptFileDegrades(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	run, err := store.Load("broken")
	if err != nil {
		t.Fatalf("corrupt file surfaced an error: %v", err)
	}
	if run.Name != "broken" || len(run.Commands) != 0 {
		t.Errorf("corrupt file loaded as %+v, want an empty run", run)
	}

	// An empty run is refused by the player rather than doing nothing
	// silently.
	p := NewPlayer()
	if err := p.Play(run, func(command.Command) {}); !errors.Is(err, ErrEmptyRun) {
		t.Errorf("playing the degraded run: got %v, want ErrEmptyRun", err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("ghost"); err == nil {
		t.Error("loading a missing run succeeded")
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(Run{Name: "demo"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("demo"); err != nil {
		t.Fatal(err)
	}
	names, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("list %v after delete, want empty", names)
	}
}
