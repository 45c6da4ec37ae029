// watcher.go implements the poll-based fallback for refreshing the people
// file.
//
// The CLI prefers filesystem notifications (see directory.Watch). When those
// cannot be started, for example on some network mounts, the model polls
// instead:
//
//  1. Every configured poll interval (default: 2 s), stat the people file and
//     record its modification time and size.
//  2. The first tick only stores the baseline.
//  3. When a later tick sees a different state, reload the directory and
//     refresh an open mention list.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// peopleWatchTickMsg is emitted by the periodic poll timer.
type peopleWatchTickMsg struct{}

// peopleFileState is what the poller compares between ticks. A missing file
// is a state of its own so deleting and recreating it is noticed.
type peopleFileState struct {
	Exists  bool
	ModNano int64
	Size    int64
}

// schedulePeopleWatchTick queues the next poll, or returns nil when polling
// is disabled.
func (m *Model) schedulePeopleWatchTick() tea.Cmd {
	if !m.pollPeople {
		return nil
	}
	return tea.Tick(m.effectivePeopleWatchInterval(), func(time.Time) tea.Msg {
		return peopleWatchTickMsg{}
	})
}

func (m *Model) effectivePeopleWatchInterval() time.Duration {
	if m.peopleWatchEvery <= 0 {
		return DefaultPeopleWatchInterval
	}
	return m.peopleWatchEvery
}

// handlePeopleWatchTick compares the people file with the last observation
// and reloads it on change. The next tick is always scheduled.
func (m *Model) handlePeopleWatchTick(_ peopleWatchTickMsg) (tea.Model, tea.Cmd) {
	path := m.cfg.PeopleFile
	state, err := statPeopleFile(path)
	if err != nil {
		appLog.Warn("stat people file", "path", path, "error", err)
		return m, m.schedulePeopleWatchTick()
	}

	if !m.peopleWatchPrimed {
		m.peopleWatchPrimed = true
		m.peopleFileState = state
		return m, m.schedulePeopleWatchTick()
	}
	if state == m.peopleFileState {
		return m, m.schedulePeopleWatchTick()
	}
	m.peopleFileState = state

	if !state.Exists {
		appLog.Warn("people file removed, keeping current list", "path", path)
		return m, m.schedulePeopleWatchTick()
	}
	if err := m.people.Load(path); err != nil {
		m.setStatusError("Error reloading people", err, "path", path)
		return m, m.schedulePeopleWatchTick()
	}
	next, cmd := m.handlePeopleReloaded(PeopleReloadedMsg{Count: m.people.Len()})
	return next, tea.Batch(cmd, m.schedulePeopleWatchTick())
}

func statPeopleFile(path string) (peopleFileState, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return peopleFileState{}, nil
	}
	if err != nil {
		return peopleFileState{}, fmt.Errorf("stat people file %q: %w", path, err)
	}
	return peopleFileState{
		Exists:  true,
		ModNano: info.ModTime().UnixNano(),
		Size:    info.Size(),
	}, nil
}
