package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// View draws the editor, the popup on top of it, the optional preview and
// the footer. Popup rows are registered with the zone manager on the way out.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	layout := m.calculateLayout()
	body := m.renderPopupOver(m.editor.View(), layout)
	if layout.PreviewWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPreview(layout))
	}
	body = padBlock(body, m.width, layout.ContentHeight)

	view := body + "\n" + m.renderFooter(m.width, layout.FooterHeight)
	return m.zones.Scan(padBlock(view, m.width, m.height))
}

// renderPopupOver composites the active popup onto the editor pane. The popup
// is clipped to the visible part of its positioning frame so a list that
// follows its anchor out of view is cut at the pane edge.
func (m *Model) renderPopupOver(base string, layout LayoutDimensions) string {
	c := m.active()
	if c == nil {
		return base
	}
	view := c.View()
	if view == "" {
		return base
	}
	h := c.Popup()
	rect := h.ViewportRect()
	clip := h.Frame()
	if h.Container() == nil {
		// Positioned without a scroll container: keep it off the footer.
		clip = intersect(clip, surface.Rect{Bottom: layout.ContentHeight, Right: layout.EditorWidth})
	}
	return overlayAt(base, view, rect.Top, rect.Left, clip)
}

func (m *Model) renderPreview(layout LayoutDimensions) string {
	return previewPane.
		Width(max(0, layout.PreviewWidth-previewPane.GetHorizontalBorderSize())).
		Height(max(0, layout.ContentHeight-previewPane.GetVerticalBorderSize())).
		Render(m.preview.View())
}
