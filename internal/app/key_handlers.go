package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes a key press: the active suggestion session sees it first,
// then the application bindings, then the editor.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c := m.active(); c != nil {
		dismiss := key.Matches(msg, c.KeyMap().Dismiss)
		handled, cmd := c.OnKeyDown(msg)
		if handled {
			if dismiss && !c.Active() {
				m.dismissed = &dismissal{char: m.trigger.Char, from: m.trigger.Anchor}
				m.status = "Suggestions dismissed"
			}
			m.reconcileOverlay()
			// A commit edits the document; pick up whatever it left before
			// the cursor.
			return m, tea.Batch(cmd, m.syncTriggers())
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.handleQuit()
	case key.Matches(msg, m.keys.Save):
		m.saveDocument()
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		return m.togglePreview()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
		return m, nil
	}

	m.quitArmed = false
	if !m.editor.HandleKey(msg) {
		return m, nil
	}
	return m, m.syncTriggers()
}

// handleQuit exits, asking for a second press when there are unsaved
// changes.
func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	if m.editor.Dirty() && !m.quitArmed {
		m.quitArmed = true
		m.status = "Unsaved changes: press Ctrl+C again to quit"
		return m, nil
	}
	m.closeOverlay()
	return m, tea.Quit
}

// togglePreview hides the preview pane or requests a fresh render of the
// document.
func (m *Model) togglePreview() (tea.Model, tea.Cmd) {
	if m.showPreview {
		m.showPreview = false
		m.applyLayout()
		m.status = "Preview closed"
		return m, nil
	}
	m.status = "Rendering preview..."
	return m, m.renderer.RenderCmd(m.editor.Text(), m.previewWidth())
}
