package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Rani367/CodLess-sub002/pkg/command"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

// DefaultRunsDir is where saved runs live.
const DefaultRunsDir = "saved_runs"

// Run is a persisted recording session: the commands captured plus the
// robot configuration they were recorded under.
type Run struct {
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Config    robot.Config       `json:"config"`
	Commands  []command.Recorded `json:"commands"`
}

// Store persists runs as one JSON document per file in a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(name, " ", "_")+".json")
}

// Save writes the run. Duplicate names are rejected so an existing run
// is never silently overwritten.
func (s *Store) Save(run Run) error {
	if strings.TrimSpace(run.Name) == "" {
		return fmt.Errorf("run name is empty")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	path := s.path(run.Name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("run %q already exists", run.Name)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a run by name. A corrupted file degrades to an empty run
// (it plays nothing) rather than failing.
func (s *Store) Load(name string) (Run, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return Run{}, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{Name: name}, nil
	}
	return run, nil
}

// List returns the names of all saved runs, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved run.
func (s *Store) Delete(name string) error {
	return os.Remove(s.path(name))
}
