package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderFooter draws the status row followed by the key help.
func (m *Model) renderFooter(width, rows int) string {
	if width <= 0 || rows <= 0 {
		return ""
	}
	lines := []string{" " + m.statusLine(max(0, width-1))}
	lines = append(lines, strings.Split(m.helpView(), "\n")...)
	return padBlock(strings.Join(lines, "\n"), width, rows)
}

// statusLine joins the footer segments with " | ", truncating the last one
// that does not fit.
func (m *Model) statusLine(width int) string {
	line := ""
	for _, seg := range m.statusSegments() {
		if seg == "" {
			continue
		}
		candidate := seg
		if line != "" {
			candidate = line + statusStyle.Render(" | ") + seg
		}
		if lipgloss.Width(candidate) > width {
			return truncateWithEllipsis(candidate, width)
		}
		line = candidate
	}
	return line
}

func (m *Model) statusSegments() []string {
	name := "[no file]"
	if m.docPath != "" {
		name = filepath.Base(m.docPath)
	}
	title := titleStyle.Render(name)
	if m.editor.Dirty() {
		title += dirtyStyle.Render(" ●")
	}

	segments := []string{title}
	if summary := m.documentSummary(); summary != "" {
		segments = append(segments, statusStyle.Render(summary))
	}
	if s := m.sessionSummary(); s != "" {
		segments = append(segments, s)
	}
	segments = append(segments, statusStyle.Render(fmt.Sprintf("people:%d", m.people.Len())))
	if m.status != "" {
		segments = append(segments, m.status)
	}
	return segments
}

// sessionSummary describes the open suggestion session, e.g. "@jo 2/5".
func (m *Model) sessionSummary() string {
	var sel, n int
	switch m.overlay {
	case overlayMention:
		sel, n = m.mention.List().SelectedIndex(), m.mention.List().Len()
	case overlayCommand:
		sel, n = m.commands.List().SelectedIndex(), m.commands.List().Len()
	default:
		return ""
	}
	s, ok := m.active().Session()
	if !ok {
		return ""
	}
	if n == 0 {
		return fmt.Sprintf("%c%s 0/0", s.Char, s.Query)
	}
	return fmt.Sprintf("%c%s %d/%d", s.Char, s.Query, sel+1, n)
}

// helpView shows the session bindings while a session is open and the
// application bindings otherwise.
func (m *Model) helpView() string {
	if c := m.active(); c != nil && c.Active() {
		return m.help.View(c.KeyMap())
	}
	return m.help.View(m.keys)
}
