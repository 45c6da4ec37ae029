package suggest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
)

const (
	DefaultMaxVisible   = 8
	DefaultListWidth    = 40
	DefaultEmptyMessage = "No results"
)

var (
	listStyle     = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

// ItemRenderer draws a single candidate row. The list truncates and pads the
// result and applies the highlight, so renderers only describe the item.
type ItemRenderer[T Candidate] func(item T, selected bool) string

type listOptions struct {
	maxVisible int
	width      int
	empty      string
	keys       KeyMap
	zones      *zone.Manager
}

// ListOption configures a List.
type ListOption func(*listOptions)

// WithMaxVisible caps the number of rows the list shows at once. Rows beyond
// the cap are reached by scrolling.
func WithMaxVisible(n int) ListOption {
	return func(o *listOptions) { o.maxVisible = n }
}

// WithWidth sets the outer width of the rendered list, frame included.
func WithWidth(n int) ListOption {
	return func(o *listOptions) { o.width = n }
}

// WithEmptyMessage replaces the placeholder drawn for an empty list.
func WithEmptyMessage(s string) ListOption {
	return func(o *listOptions) { o.empty = s }
}

// WithKeyMap replaces the navigation bindings.
func WithKeyMap(k KeyMap) ListOption {
	return func(o *listOptions) { o.keys = k }
}

// WithZones marks every rendered row with a bubblezone id so pointer events
// can be hit tested against the last drawn frame.
func WithZones(z *zone.Manager) ListOption {
	return func(o *listOptions) { o.zones = z }
}

// List is a keyboard and pointer driven candidate list. It owns the
// highlighted index; callers never track it themselves.
type List[T Candidate] struct {
	items       []T
	selected    int
	offset      int
	heightLimit int

	render   ItemRenderer[T]
	onCommit func(T) tea.Cmd
	opts     listOptions
	prefix   string
}

// NewList builds a list that draws rows with render and hands the chosen
// item to onCommit.
func NewList[T Candidate](render ItemRenderer[T], onCommit func(T) tea.Cmd, opts ...ListOption) *List[T] {
	o := listOptions{
		maxVisible: DefaultMaxVisible,
		width:      DefaultListWidth,
		empty:      DefaultEmptyMessage,
		keys:       DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	l := &List[T]{render: render, onCommit: onCommit, opts: o}
	if o.zones != nil {
		l.prefix = o.zones.NewPrefix()
	}
	return l
}

// SetItems replaces the candidate sequence. The highlight moves back to the
// first row unless items is the very slice already shown.
func (l *List[T]) SetItems(items []T) {
	if !sameSlice(items, l.items) {
		l.selected = 0
		l.offset = 0
	}
	l.items = items
	l.ensureVisible()
}

// Items returns the current sequence.
func (l *List[T]) Items() []T { return l.items }

// Len returns the number of candidates.
func (l *List[T]) Len() int { return len(l.items) }

// SelectedIndex returns the highlighted row.
func (l *List[T]) SelectedIndex() int { return l.selected }

// Selected returns the highlighted candidate, if any.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[l.selected], true
}

// Offset returns the index of the first visible row.
func (l *List[T]) Offset() int { return l.offset }

// SetHeightLimit clamps the rendered height, frame included, to at most h
// rows. Zero removes the clamp.
func (l *List[T]) SetHeightLimit(h int) {
	l.heightLimit = max(0, h)
	l.ensureVisible()
}

// OnKeyDown applies navigation and selection keys. Navigation wraps around.
// The keys are consumed even when the list is empty.
func (l *List[T]) OnKeyDown(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, l.opts.keys.Up):
		l.move(-1)
		return true, nil
	case key.Matches(msg, l.opts.keys.Down):
		l.move(1)
		return true, nil
	case key.Matches(msg, l.opts.keys.Select):
		return true, l.commit(l.selected)
	}
	return false, nil
}

// HighlightAt moves the highlight to row i, as a pointer hover does.
func (l *List[T]) HighlightAt(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.selected = i
	l.ensureVisible()
}

// SelectAt commits row i through the same path as the select key.
func (l *List[T]) SelectAt(i int) tea.Cmd {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	l.selected = i
	return l.commit(i)
}

// ZoneID returns the bubblezone id of row i.
func (l *List[T]) ZoneID(i int) string {
	return fmt.Sprintf("%srow-%d", l.prefix, i)
}

// HitTest reports the visible row under a mouse event, using the zones
// recorded from the last scanned frame.
func (l *List[T]) HitTest(msg tea.MouseMsg) (int, bool) {
	if l.opts.zones == nil {
		return 0, false
	}
	rows := l.visibleRows()
	for i := l.offset; i < min(len(l.items), l.offset+rows); i++ {
		if z := l.opts.zones.Get(l.ZoneID(i)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}

// NaturalView renders the list without the external height clamp. Its height
// is what the popup measures as the natural content height.
func (l *List[T]) NaturalView() string {
	return l.renderRows(l.rowsFor(0))
}

// View renders the list within the current height limit.
func (l *List[T]) View() string {
	if l.heightLimit > 0 && l.heightLimit <= listStyle.GetVerticalFrameSize() {
		return ""
	}
	return l.renderRows(l.visibleRows())
}

func (l *List[T]) renderRows(rows int) string {
	inner := max(1, l.opts.width-listStyle.GetHorizontalFrameSize())
	if len(l.items) == 0 {
		return listStyle.Render(mutedStyle.Render(fit(l.opts.empty, inner)))
	}

	start := l.offset
	if start+rows > len(l.items) {
		start = max(0, len(l.items)-rows)
	}
	if l.selected >= start+rows {
		start = l.selected - rows + 1
	}

	lines := make([]string, 0, rows)
	for i := start; i < min(len(l.items), start+rows); i++ {
		selected := i == l.selected
		line := fit(l.render(l.items[i], selected), inner)
		if selected {
			line = selectedStyle.Render(line)
		}
		if l.opts.zones != nil {
			line = l.opts.zones.Mark(l.ZoneID(i), line)
		}
		lines = append(lines, line)
	}
	return listStyle.Render(strings.Join(lines, "\n"))
}

func (l *List[T]) move(delta int) {
	n := len(l.items)
	if n == 0 {
		return
	}
	l.selected = (l.selected + delta + n) % n
	l.ensureVisible()
}

func (l *List[T]) commit(i int) tea.Cmd {
	if i < 0 || i >= len(l.items) || l.onCommit == nil {
		return nil
	}
	return l.onCommit(l.items[i])
}

// rowsFor returns how many candidate rows fit when the whole list, frame
// included, may use at most limit rows. Zero means unlimited.
func (l *List[T]) rowsFor(limit int) int {
	rows := len(l.items)
	if l.opts.maxVisible > 0 {
		rows = min(rows, l.opts.maxVisible)
	}
	if limit > 0 {
		rows = min(rows, limit-listStyle.GetVerticalFrameSize())
	}
	return max(0, rows)
}

func (l *List[T]) visibleRows() int { return l.rowsFor(l.heightLimit) }

// ensureVisible scrolls by the smallest amount that keeps the highlighted row
// on screen.
func (l *List[T]) ensureVisible() {
	rows := l.visibleRows()
	if rows == 0 {
		l.offset = 0
		return
	}
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+rows {
		l.offset = l.selected - rows + 1
	}
	l.offset = max(0, min(l.offset, len(l.items)-rows))
}

// fit truncates s to width cells and pads it so highlighted rows span the
// full list width.
func fit(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
