package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// View renders the framed pane.
func (e *Editor) View() string {
	b := e.pane.Bounds()
	if b.Width() <= 0 || b.Height() <= 0 {
		return ""
	}
	style := e.pane.Style
	return style.
		Width(max(0, b.Width()-style.GetHorizontalBorderSize())).
		Height(max(0, b.Height()-style.GetVerticalBorderSize())).
		Render(e.vp.View())
}

// CoordsAtPos maps a buffer position to the viewport cell it is drawn in. The
// result follows the pane's current scroll offsets and may lie outside the
// pane when the position is scrolled out of view.
func (e *Editor) CoordsAtPos(pos surface.Pos) surface.Rect {
	lines := e.lines()
	line, col := e.lineCol(int(pos))
	box := e.pane.ContentBox()
	top := box.Top + line - e.pane.ScrollTop()
	left := box.Left + ansi.StringWidth(string(lines[line][:col])) - e.pane.ScrollLeft()
	return surface.Rect{Top: top, Left: left, Bottom: top + 1, Right: left + 1}
}

// PosAtPoint maps a viewport cell to the nearest buffer position. It reports
// false when the cell is outside the pane's content box.
func (e *Editor) PosAtPoint(x, y int) (surface.Pos, bool) {
	box := e.pane.ContentBox()
	if !box.Contains(x, y) {
		return 0, false
	}
	lines := e.lines()
	line := clamp(y-box.Top+e.pane.ScrollTop(), 0, len(lines)-1)
	target := x - box.Left + e.pane.ScrollLeft()

	col, width := 0, 0
	for _, r := range lines[line] {
		w := ansi.StringWidth(string(r))
		if width+w > target {
			break
		}
		width += w
		col++
	}
	return surface.Pos(e.offsetAt(line, col)), true
}

// ScrollBy scrolls the pane by delta lines without moving the cursor.
func (e *Editor) ScrollBy(delta int) {
	e.vp.SetYOffset(e.vp.YOffset + delta)
	e.pane.ScrollTo(e.vp.YOffset, e.xOffset)
}

// HandleMouse scrolls on wheel events and places the cursor on left clicks
// inside the pane. It reports whether the event was used.
func (e *Editor) HandleMouse(msg tea.MouseMsg) bool {
	if !e.pane.Bounds().Contains(msg.X, msg.Y) {
		return false
	}
	if msg.Action != tea.MouseActionPress {
		return false
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		e.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		e.ScrollBy(wheelStep)
	case tea.MouseButtonLeft:
		pos, ok := e.PosAtPoint(msg.X, msg.Y)
		if !ok {
			return false
		}
		e.moveTo(int(pos))
	default:
		return false
	}
	return true
}

// sync re-renders the buffer into the viewport, keeps the cursor in view and
// mirrors the viewport's offsets onto the pane so scroll listeners observe
// them.
func (e *Editor) sync() {
	lines := e.lines()
	line, col := e.lineCol(e.cursor)

	y := e.vp.YOffset
	if line < y {
		y = line
	}
	if e.vp.Height > 0 && line >= y+e.vp.Height {
		y = line - e.vp.Height + 1
	}

	x := ansi.StringWidth(string(lines[line][:col]))
	if x < e.xOffset {
		e.xOffset = x
	}
	if e.vp.Width > 0 && x >= e.xOffset+e.vp.Width {
		e.xOffset = x - e.vp.Width + 1
	}

	e.vp.SetContent(e.render(lines, line, col))
	e.vp.SetYOffset(y)
	e.pane.SetScrollHeight(len(lines) + e.pane.Style.GetVerticalPadding())
	e.pane.ScrollTo(e.vp.YOffset, e.xOffset)
}

func (e *Editor) render(lines [][]rune, cursorLine, cursorCol int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		var s string
		if i == cursorLine {
			under := " "
			rest := ""
			if cursorCol < len(l) {
				under = string(l[cursorCol])
				rest = string(l[cursorCol+1:])
			}
			s = string(l[:cursorCol]) + cursorStyle.Render(under) + rest
		} else {
			s = string(l)
		}
		if e.vp.Width > 0 {
			s = ansi.Cut(s, e.xOffset, e.xOffset+e.vp.Width)
		}
		out[i] = s
	}
	return strings.Join(out, "\n")
}
