// Package editor is the plain-text Markdown editing surface that suggestion
// sessions run on. It keeps a rune buffer and cursor, draws them through a
// viewport inside a bordered pane, and exposes the pieces a suggestion
// overlay needs from its host: coordinate mapping, trigger detection and a
// range replacement API.
package editor

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

var (
	// PaneStyle frames the editing pane.
	PaneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("204"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

// wheelStep is how many lines one mouse wheel notch scrolls.
const wheelStep = 3

// Editor is a multi-line text buffer with a single cursor.
type Editor struct {
	buf    []rune
	cursor int

	pane     *surface.Node
	document *surface.Node
	vp       viewport.Model
	xOffset  int

	dirty bool

	undo        []snapshot
	redo        []snapshot
	burstActive bool
	burstLastAt time.Time
	now         func() time.Time
}

// New returns an empty editor. Call SetBounds before drawing it.
func New() *Editor {
	pane := surface.NewNode("editor-pane")
	pane.Style = PaneStyle
	pane.Overflow = surface.OverflowAuto
	doc := surface.NewNode("document")
	pane.AppendChild(doc)

	e := &Editor{
		pane:     pane,
		document: doc,
		vp:       viewport.New(0, 0),
		now:      time.Now,
	}
	e.sync()
	return e
}

// Pane returns the scrolling pane node.
func (e *Editor) Pane() *surface.Node { return e.pane }

// Surface returns the node that holds the document text. Overlays anchored
// in the document are mounted relative to it.
func (e *Editor) Surface() *surface.Node { return e.document }

// SetBounds positions the pane in viewport cells.
func (e *Editor) SetBounds(r surface.Rect) {
	e.pane.SetBounds(r)
	box := e.pane.ContentBox()
	e.document.SetBounds(box)
	e.vp.Width = box.Width()
	e.vp.Height = box.Height()
	e.sync()
}

// Text returns the buffer contents.
func (e *Editor) Text() string { return string(e.buf) }

// SetText replaces the whole buffer, moves the cursor to the start and clears
// undo history.
func (e *Editor) SetText(s string) {
	e.buf = []rune(s)
	e.cursor = 0
	e.xOffset = 0
	e.vp.SetYOffset(0)
	e.dirty = false
	e.resetHistory()
	e.sync()
}

// Len returns the buffer length in runes.
func (e *Editor) Len() int { return len(e.buf) }

// Cursor returns the cursor position.
func (e *Editor) Cursor() surface.Pos { return surface.Pos(e.cursor) }

// SetCursor moves the cursor, clamped to the buffer.
func (e *Editor) SetCursor(pos surface.Pos) {
	e.cursor = clamp(int(pos), 0, len(e.buf))
	e.sync()
}

// Dirty reports whether the buffer changed since the last SetText or
// MarkClean.
func (e *Editor) Dirty() bool { return e.dirty }

// MarkClean records that the buffer has been saved.
func (e *Editor) MarkClean() { e.dirty = false }

// Replace swaps the text in rng for text and leaves the cursor after the
// inserted text. It is the mutation API used by suggestion commands and is
// recorded as a single undo step.
func (e *Editor) Replace(rng surface.Range, text string) {
	before := e.capture()
	from := clamp(int(rng.From), 0, len(e.buf))
	to := clamp(int(rng.To), from, len(e.buf))
	repl := []rune(text)

	updated := make([]rune, 0, len(e.buf)-(to-from)+len(repl))
	updated = append(updated, e.buf[:from]...)
	updated = append(updated, repl...)
	updated = append(updated, e.buf[to:]...)
	e.buf = updated
	e.cursor = from + len(repl)
	e.dirty = true
	e.recordDiscrete(before)
	e.sync()
}

// InsertText inserts text at the cursor as a discrete edit.
func (e *Editor) InsertText(text string) {
	e.Replace(surface.Range{From: e.Cursor(), To: e.Cursor()}, text)
}

// HandleKey applies an editing or movement key and reports whether the key
// was used.
func (e *Editor) HandleKey(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyRunes {
		e.typeRunes(msg.Runes)
		return true
	}

	switch msg.String() {
	case " ":
		e.typeRunes([]rune{' '})
	case "enter":
		e.typeRunes([]rune{'\n'})
	case "tab":
		e.typeRunes([]rune("  "))
	case "backspace":
		e.deleteRange(e.cursor-1, e.cursor)
	case "delete":
		e.deleteRange(e.cursor, e.cursor+1)
	case "left":
		e.moveTo(e.cursor - 1)
	case "right":
		e.moveTo(e.cursor + 1)
	case "up":
		e.moveLines(-1)
	case "down":
		e.moveLines(1)
	case "pgup":
		e.moveLines(-max(1, e.vp.Height))
	case "pgdown":
		e.moveLines(max(1, e.vp.Height))
	case "home", "ctrl+a":
		line, _ := e.lineCol(e.cursor)
		e.moveTo(e.offsetAt(line, 0))
	case "end", "ctrl+e":
		line, _ := e.lineCol(e.cursor)
		e.moveTo(e.offsetAt(line, len(e.lines()[line])))
	case "ctrl+z":
		return e.Undo()
	case "ctrl+y":
		return e.Redo()
	default:
		return false
	}
	return true
}

func (e *Editor) typeRunes(rs []rune) {
	if len(rs) == 0 {
		return
	}
	before := e.capture()
	e.buf = slices.Insert(e.buf, e.cursor, rs...)
	e.cursor += len(rs)
	e.dirty = true
	e.recordTyping(before)
	e.sync()
}

func (e *Editor) deleteRange(from, to int) {
	from = clamp(from, 0, len(e.buf))
	to = clamp(to, from, len(e.buf))
	if from == to {
		return
	}
	before := e.capture()
	e.buf = slices.Delete(e.buf, from, to)
	e.cursor = from
	e.dirty = true
	e.recordTyping(before)
	e.sync()
}

func (e *Editor) moveTo(pos int) {
	e.finalizeBurst()
	e.cursor = clamp(pos, 0, len(e.buf))
	e.sync()
}

func (e *Editor) moveLines(delta int) {
	lines := e.lines()
	line, col := e.lineCol(e.cursor)
	target := clamp(line+delta, 0, len(lines)-1)
	e.moveTo(e.offsetAt(target, min(col, len(lines[target]))))
}

// lines splits the buffer on newlines. There is always at least one line.
func (e *Editor) lines() [][]rune {
	out := make([][]rune, 0, 16)
	start := 0
	for i, r := range e.buf {
		if r == '\n' {
			out = append(out, e.buf[start:i])
			start = i + 1
		}
	}
	return append(out, e.buf[start:])
}

// lineCol converts a buffer offset to a line index and rune column.
func (e *Editor) lineCol(pos int) (int, int) {
	pos = clamp(pos, 0, len(e.buf))
	line, start := 0, 0
	for i := 0; i < pos; i++ {
		if e.buf[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, pos - start
}

// offsetAt converts a line index and rune column to a buffer offset.
func (e *Editor) offsetAt(line, col int) int {
	offset := 0
	for i, l := range e.lines() {
		if i == line {
			return offset + clamp(col, 0, len(l))
		}
		offset += len(l) + 1
	}
	return len(e.buf)
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
