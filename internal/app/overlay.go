package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-notes-suggest/internal/popup"
	"github.com/treykane/cli-notes-suggest/internal/suggest"
	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// Trigger characters.
const (
	triggerMention = '@'
	triggerCommand = '/'
)

// overlayMode says which suggestion session, if any, owns the popup.
type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayMention
	overlayCommand
)

func (o overlayMode) String() string {
	switch o {
	case overlayMention:
		return "mention"
	case overlayCommand:
		return "command"
	default:
		return "none"
	}
}

func overlayForTrigger(ch rune) overlayMode {
	switch ch {
	case triggerMention:
		return overlayMention
	case triggerCommand:
		return overlayCommand
	default:
		return overlayNone
	}
}

// session is the part of a suggestion controller the model drives. Both
// controllers satisfy it regardless of their candidate type.
type session interface {
	Active() bool
	Session() (suggest.Session, bool)
	Popup() *popup.Handle
	KeyMap() suggest.KeyMap
	OnStart(suggest.Trigger) tea.Cmd
	OnUpdate(suggest.Trigger)
	OnKeyDown(tea.KeyMsg) (bool, tea.Cmd)
	HandleMouse(tea.MouseMsg) (bool, tea.Cmd)
	OnExit()
	Reposition()
	View() string
}

// dismissal remembers a trigger closed with Escape so typing more of the same
// query does not reopen it.
type dismissal struct {
	char rune
	from surface.Pos
}

func (m *Model) controllerFor(mode overlayMode) session {
	switch mode {
	case overlayMention:
		return m.mention
	case overlayCommand:
		return m.commands
	default:
		return nil
	}
}

// active returns the controller that owns the popup, or nil.
func (m *Model) active() session {
	return m.controllerFor(m.overlay)
}

// openOverlay activates one overlay and ensures any previous overlay state is
// cleaned up.
func (m *Model) openOverlay(mode overlayMode) {
	if m.overlay == mode {
		return
	}
	m.closeOverlay()
	m.overlay = mode
}

// closeOverlay ends the active session, if any, and resets the mode.
func (m *Model) closeOverlay() {
	if c := m.active(); c != nil {
		c.OnExit()
	}
	m.overlay = overlayNone
}

// reconcileOverlay drops the mode after a controller ended its own session by
// committing or dismissing.
func (m *Model) reconcileOverlay() {
	if c := m.active(); c != nil && !c.Active() {
		m.overlay = overlayNone
	}
}

// syncTriggers reconciles the suggestion sessions with the text before the
// cursor. It runs after every edit or cursor move.
func (m *Model) syncTriggers() tea.Cmd {
	m.reconcileOverlay()

	match, ok := m.editor.MatchTrigger(triggerMention, triggerCommand)
	if !ok {
		m.dismissed = nil
		m.closeOverlay()
		return nil
	}
	if d := m.dismissed; d != nil {
		if d.char == match.Char && d.from == match.Range.From {
			return nil
		}
		m.dismissed = nil
	}

	t := suggest.Trigger{
		Char:   match.Char,
		Anchor: match.Range.From,
		Range:  match.Range,
		Query:  match.Query,
	}
	m.trigger = t
	mode := overlayForTrigger(match.Char)

	if m.overlay == mode {
		c := m.active()
		if s, ok := c.Session(); ok && s.Anchor == t.Anchor {
			c.OnUpdate(t)
			return nil
		}
		// Same trigger character at a different position: a new session.
		m.closeOverlay()
	}

	m.openOverlay(mode)
	return m.active().OnStart(t)
}

// repositionActive re-places the popup after the pane moved without a
// scroll notification, e.g. after a layout change.
func (m *Model) repositionActive() {
	if c := m.active(); c != nil {
		c.Reposition()
	}
}
