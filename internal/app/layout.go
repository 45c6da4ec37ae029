// layout.go centralizes the terminal layout calculations.
//
// The editor pane fills the terminal above the footer. When the Markdown
// preview is open the width is split and the preview takes the right half.
// The footer holds one status row plus the key help, which grows when the
// full help is shown.
package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	EditorWidth   int // width of the editor pane including its border
	PreviewWidth  int // width of the preview pane including its border, 0 when hidden
	ContentHeight int // rows above the footer
	FooterHeight  int
}

// calculateLayout computes all UI dimensions from the terminal size.
func (m *Model) calculateLayout() LayoutDimensions {
	footer := m.footerHeight()
	layout := LayoutDimensions{
		EditorWidth:   m.width,
		ContentHeight: max(0, m.height-footer),
		FooterHeight:  footer,
	}
	if m.showPreview {
		layout.PreviewWidth = m.width / 2
		layout.EditorWidth = m.width - layout.PreviewWidth
	}
	return layout
}

// applyLayout pushes the calculated layout into the editor and preview.
func (m *Model) applyLayout() {
	m.help.Width = m.width
	layout := m.calculateLayout()
	m.editor.SetBounds(surface.Rect{
		Bottom: layout.ContentHeight,
		Right:  layout.EditorWidth,
	})
	m.preview.Width = max(0, layout.PreviewWidth-previewPane.GetHorizontalFrameSize())
	m.preview.Height = max(0, layout.ContentHeight-previewPane.GetVerticalFrameSize())
}

// footerHeight is one status row plus however many rows the help needs.
func (m *Model) footerHeight() int {
	return 1 + lipgloss.Height(m.helpView())
}

// previewWidth is the wrap width for preview renders. It is computed as if
// the preview were open so the first render already fits.
func (m *Model) previewWidth() int {
	return max(0, m.width/2-previewPane.GetHorizontalFrameSize())
}
