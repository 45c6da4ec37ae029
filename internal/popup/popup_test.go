package popup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// fixture is a bordered scroll pane holding an editing surface. Document
// positions map to rows: position n sits on row n, column n%7.
type fixture struct {
	win    *surface.Window
	pane   *surface.Node
	editor *surface.Node
}

func newFixture(t *testing.T, paneHeight, contentRows int) *fixture {
	t.Helper()
	win := surface.NewWindow(120, paneHeight+10)
	pane := surface.NewNode("pane")
	pane.Overflow = surface.OverflowAuto
	pane.Style = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	pane.SetBounds(surface.Rect{Top: 0, Left: 0, Bottom: paneHeight, Right: 100})
	pane.SetScrollHeight(contentRows)
	win.Root().AppendChild(pane)

	editor := surface.NewNode("editor")
	pane.AppendChild(editor)
	return &fixture{win: win, pane: pane, editor: editor}
}

func (f *fixture) coords(pos surface.Pos) surface.Rect {
	box := f.pane.ContentBox()
	top := box.Top + int(pos) - f.pane.ScrollTop()
	left := box.Left + int(pos)%7 - f.pane.ScrollLeft()
	return surface.Rect{Top: top, Left: left, Bottom: top + 1, Right: left + 1}
}

func rows(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "item"
	}
	return strings.Join(lines, "\n")
}

func TestRepositionPlacesBelowWhenItFits(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 5, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(4))
	h.Reposition()

	p := h.Placement()
	assert.Equal(t, SideBelow, p.Side)
	assert.Equal(t, 4, p.Height)
	assert.False(t, p.Clamped)

	anchor := f.coords(5)
	assert.Equal(t, anchor.Bottom+1, h.ViewportRect().Top)
	assert.Equal(t, anchor.Left, h.ViewportRect().Left)
}

func TestRepositionFlipsAboveWithoutClamping(t *testing.T) {
	// content box rows 1..38; anchor on row 33 leaves 4 rows below, 31 above.
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 32, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(6))
	h.Reposition()

	p := h.Placement()
	require.Equal(t, SideAbove, p.Side)
	assert.Equal(t, 6, p.Height)
	assert.False(t, p.Clamped)

	anchor := f.coords(32)
	vp := h.ViewportRect()
	assert.Equal(t, anchor.Top-1, vp.Bottom)
	assert.Equal(t, anchor.Top-1-6, vp.Top)
}

func TestRepositionClampsToLargerSide(t *testing.T) {
	tests := []struct {
		name   string
		anchor surface.Pos
		side   Side
	}{
		// content box rows 1..10, too short for ten rows on either side.
		{name: "more room above", anchor: 6, side: SideAbove},
		{name: "more room below", anchor: 2, side: SideBelow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 12, 200)
			h := Create(f.editor, f.win, f.coords, tt.anchor, Options{Gap: 1, MaxHeight: 12})
			h.SetContent(rows(10))
			h.Reposition()

			frame := h.Frame()
			anchor := f.coords(tt.anchor)
			spaceBelow := frame.Bottom - anchor.Bottom - 1
			spaceAbove := anchor.Top - frame.Top - 1

			p := h.Placement()
			require.Equal(t, tt.side, p.Side)
			assert.True(t, p.Clamped)
			want := max(spaceAbove, spaceBelow)
			assert.Equal(t, want, p.Height)

			vp := h.ViewportRect()
			assert.GreaterOrEqual(t, vp.Top, frame.Top)
			assert.LessOrEqual(t, vp.Bottom, frame.Bottom)
		})
	}
}

func TestRepositionCapsNaturalHeight(t *testing.T) {
	f := newFixture(t, 60, 200)
	h := Create(f.editor, f.win, f.coords, 2, Options{Gap: 1, MaxHeight: 5})
	h.SetContent(rows(20))
	h.Reposition()

	assert.Equal(t, 5, h.Placement().Height)
	assert.False(t, h.Placement().Clamped)
}

func TestRepositionUsesFallbackBeforeFirstRender(t *testing.T) {
	f := newFixture(t, 60, 200)
	h := Create(f.editor, f.win, f.coords, 2, Options{Gap: 1, MaxHeight: 12, FallbackHeight: 7})
	h.Reposition()

	assert.Equal(t, 7, h.Placement().Height)
}

func TestViewportIsFrameWithoutScrollContainer(t *testing.T) {
	win := surface.NewWindow(80, 20)
	editor := surface.NewNode("editor")
	win.Root().AppendChild(editor)
	coords := func(pos surface.Pos) surface.Rect {
		return surface.Rect{Top: int(pos), Left: 3, Bottom: int(pos) + 1, Right: 4}
	}

	h := Create(editor, win, coords, 17, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(5))
	h.Reposition()

	require.Nil(t, h.Container())
	assert.Same(t, win.Root(), h.Element().Parent())
	assert.Equal(t, 0, win.Root().ListenerCount(), "root viewport gets no scroll listener")
	assert.Equal(t, 1, win.ListenerCount())

	p := h.Placement()
	assert.Equal(t, SideAbove, p.Side)
	assert.Equal(t, 17-1-5, p.Top)
}

func TestViewportOptionFramesPopupWithoutScrollContainer(t *testing.T) {
	win := surface.NewWindow(80, 20)
	editor := surface.NewNode("editor")
	win.Root().AppendChild(editor)
	coords := func(pos surface.Pos) surface.Rect {
		return surface.Rect{Top: int(pos), Left: 3, Bottom: int(pos) + 1, Right: 4}
	}
	visible := surface.Rect{Top: 1, Left: 2, Bottom: 8, Right: 78}

	h := Create(editor, win, coords, 2, Options{Gap: 1, MaxHeight: 12, Viewport: func() surface.Rect { return visible }})
	h.SetContent(rows(6))
	h.Reposition()

	require.Nil(t, h.Container())
	assert.Equal(t, visible, h.Frame())
	p := h.Placement()
	assert.Equal(t, SideBelow, p.Side)
	assert.True(t, p.Clamped)
	assert.Equal(t, 8-3-1, p.Height)
	assert.Equal(t, 8, h.ViewportRect().Bottom)
}

func TestScrollKeepsPopupPinnedToContent(t *testing.T) {
	f := newFixture(t, 100, 500)
	h := Create(f.editor, f.win, f.coords, 77, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(5))
	h.Reposition()

	before := h.ViewportRect()
	placement := h.Placement()

	f.pane.ScrollTo(50, 0)

	after := h.ViewportRect()
	assert.Equal(t, placement.Top, h.Placement().Top, "content-relative top is stable")
	assert.Equal(t, 50, before.Top-after.Top)
	assert.Equal(t, before.Left, after.Left)

	f.pane.ScrollTo(50, 50)
	shifted := h.ViewportRect()
	assert.Equal(t, placement.Left, h.Placement().Left)
	assert.Equal(t, 50, after.Left-shifted.Left)
	assert.Equal(t, after.Top, shifted.Top)
}

func TestResizeRepositions(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 33, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(6))
	h.Reposition()
	require.Equal(t, SideAbove, h.Placement().Side)

	f.pane.SetBounds(surface.Rect{Bottom: 80, Right: 100})
	f.win.Resize(120, 90)

	assert.Equal(t, SideBelow, h.Placement().Side)
}

func TestSetAnchorPosDoesNotReposition(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 3, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(3))
	h.Reposition()
	before := h.Placement()

	h.SetAnchorPos(10)
	assert.Equal(t, surface.Pos(10), h.AnchorPos())
	assert.Equal(t, before, h.Placement())

	h.Reposition()
	assert.Equal(t, before.Top+7, h.Placement().Top)
}

func TestDestroyTwiceIsSafe(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 3, Options{Gap: 1, MaxHeight: 12})
	require.Equal(t, 1, f.pane.ListenerCount())
	require.Equal(t, 1, f.win.ListenerCount())
	require.True(t, h.Element().Attached())

	other := f.pane.OnScroll(func() {})
	defer other()

	h.Destroy()
	h.Destroy()

	assert.True(t, h.Destroyed())
	assert.False(t, h.Element().Attached())
	assert.Equal(t, 1, f.pane.ListenerCount(), "unrelated listeners survive")
	assert.Equal(t, 0, f.win.ListenerCount())
}

func TestRepositionAfterDestroyIsNoop(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 3, Options{Gap: 1, MaxHeight: 12})
	h.SetContent(rows(3))
	h.Reposition()
	before := h.Placement()

	h.Destroy()
	h.SetAnchorPos(20)
	h.Reposition()
	f.pane.ScrollTo(10, 0)

	assert.Equal(t, before, h.Placement())
}

func TestScheduleRepositionEmitsMessage(t *testing.T) {
	f := newFixture(t, 40, 200)
	h := Create(f.editor, f.win, f.coords, 3, DefaultOptions())

	msg := h.ScheduleReposition()()
	rm, ok := msg.(RepositionMsg)
	require.True(t, ok)
	assert.Same(t, h, rm.Handle)
}
