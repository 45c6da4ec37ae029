package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-notes-suggest/internal/commands"
	"github.com/treykane/cli-notes-suggest/internal/popup"
)

// PeopleReloadedMsg reports that the people directory changed on disk. The
// CLI sends it from the filesystem watcher.
type PeopleReloadedMsg struct {
	Count int
}

// handleWindowResize lays the panes out again. The window is resized after
// the editor bounds change so the popup's resize listener measures the new
// geometry.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applyLayout()
	m.win.Resize(msg.Width, msg.Height)
	m.repositionActive()
	return m, nil
}

// handleMouse gives popup rows the first look at pointer events so a click
// on a candidate never reaches the editor.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if c := m.active(); c != nil {
		if handled, cmd := c.HandleMouse(msg); handled {
			m.reconcileOverlay()
			return m, tea.Batch(cmd, m.syncTriggers())
		}
	}

	if !m.editor.HandleMouse(msg) {
		return m, nil
	}
	if msg.Button == tea.MouseButtonLeft {
		m.quitArmed = false
		return m, m.syncTriggers()
	}
	m.repositionActive()
	return m, nil
}

// handleReposition performs a placement requested when a session started.
// Requests for popups that have since been destroyed are dropped.
func (m *Model) handleReposition(msg popup.RepositionMsg) (tea.Model, tea.Cmd) {
	c := m.active()
	if c == nil || c.Popup() != msg.Handle {
		return m, nil
	}
	c.Reposition()
	return m, nil
}

// handlePreview shows a finished render unless a newer one was requested.
func (m *Model) handlePreview(msg commands.PreviewMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.renderer.Seq() {
		return m, nil
	}
	if msg.Err != nil {
		m.setStatusError("Error rendering preview", msg.Err, "seq", msg.Seq)
	} else {
		m.status = "Preview updated"
	}
	m.preview.SetContent(msg.Content)
	m.preview.GotoTop()
	if !m.showPreview {
		m.showPreview = true
		m.applyLayout()
		m.repositionActive()
	}
	return m, nil
}

// handlePeopleReloaded refreshes an open mention list so it reflects the new
// directory without waiting for the next keystroke.
func (m *Model) handlePeopleReloaded(msg PeopleReloadedMsg) (tea.Model, tea.Cmd) {
	m.status = fmt.Sprintf("People reloaded (%d)", msg.Count)
	if m.overlay == overlayMention && m.mention.Active() {
		m.mention.OnUpdate(m.trigger)
	}
	return m, nil
}
