package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/treykane/cli-notes-suggest/internal/config"
	"github.com/treykane/cli-notes-suggest/internal/directory"
)

func writePeopleFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write people file: %v", err)
	}
}

func newPollingModel(t *testing.T, path string) *Model {
	t.Helper()
	cfg := config.Default()
	cfg.PeopleFile = path
	cfg.Watch.PollInterval = 10 * time.Second
	people := directory.New()
	if err := people.Load(path); err != nil {
		t.Fatalf("load people: %v", err)
	}
	return newTestModel(t, Options{Config: cfg, People: people, PollPeople: true})
}

func TestPollingIsDisabledWithoutPeopleFile(t *testing.T) {
	m := newTestModel(t, Options{PollPeople: true})
	if cmd := m.Init(); cmd != nil {
		t.Fatal("expected no poller without a people file")
	}
}

func TestPollingUsesConfiguredInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	writePeopleFile(t, path, `[{"id": "u1", "name": "Ada"}]`)
	m := newPollingModel(t, path)

	if got := m.effectivePeopleWatchInterval(); got != 10*time.Second {
		t.Fatalf("expected poll interval 10s, got %s", got)
	}
	if m.Init() == nil {
		t.Fatal("expected Init to schedule the first poll")
	}
	m.peopleWatchEvery = 0
	if got := m.effectivePeopleWatchInterval(); got != DefaultPeopleWatchInterval {
		t.Fatalf("expected the default interval, got %s", got)
	}
}

func TestPeopleWatchTickReloadsChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	writePeopleFile(t, path, `[{"id": "u1", "name": "Ada"}]`)
	m := newPollingModel(t, path)

	// The first tick only records the baseline.
	if _, cmd := m.handlePeopleWatchTick(peopleWatchTickMsg{}); cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if m.people.Len() != 1 {
		t.Fatalf("expected 1 person, got %d", m.people.Len())
	}

	writePeopleFile(t, path, `[{"id": "u1", "name": "Ada"}, {"id": "u2", "name": "Alan"}]`)
	if _, cmd := m.handlePeopleWatchTick(peopleWatchTickMsg{}); cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if m.people.Len() != 2 {
		t.Fatalf("expected 2 people after reload, got %d", m.people.Len())
	}
	if m.status != "People reloaded (2)" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPeopleWatchTickKeepsListOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	writePeopleFile(t, path, `[{"id": "u1", "name": "Ada"}]`)
	m := newPollingModel(t, path)
	m.handlePeopleWatchTick(peopleWatchTickMsg{})

	writePeopleFile(t, path, `not json at all`)
	m.handlePeopleWatchTick(peopleWatchTickMsg{})

	if m.people.Len() != 1 {
		t.Fatalf("expected the previous list to survive, got %d", m.people.Len())
	}
	if m.status != "Error reloading people" {
		t.Fatalf("unexpected status %q", m.status)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	m.handlePeopleWatchTick(peopleWatchTickMsg{})
	if m.people.Len() != 1 {
		t.Fatal("a removed file keeps the current list")
	}
}
