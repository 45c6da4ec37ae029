// Package popup positions a floating overlay next to a document position.
//
// A Handle is created when a suggestion session starts and destroyed exactly
// once when it ends. While alive it keeps the overlay pinned to its anchor:
// every Reposition resolves the available space above and below the anchor
// inside the nearest scroll container, flips or clamps the overlay to fit, and
// stores the result relative to the container's content origin so the overlay
// travels with the text when the container scrolls.
package popup

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// Default geometry, in terminal cells.
const (
	DefaultGap            = 1
	DefaultMaxHeight      = 12
	DefaultFallbackHeight = 6
)

// CoordsFunc maps a document position to its viewport rectangle. It is
// supplied by the host editor and trusted to return a best-effort rectangle
// for any position.
type CoordsFunc func(surface.Pos) surface.Rect

// Options tunes the placement algorithm. Zero MaxHeight and FallbackHeight use
// the defaults; Gap is taken as given.
type Options struct {
	// Gap is the margin kept between the anchor and the overlay.
	Gap int
	// MaxHeight caps the overlay's natural content height.
	MaxHeight int
	// FallbackHeight is assumed when nothing has been rendered yet.
	FallbackHeight int
	// Viewport reports the visible area used as the frame when the host has
	// no scroll container. Nil means the window bounds.
	Viewport func() surface.Rect
}

// DefaultOptions returns the default geometry.
func DefaultOptions() Options {
	return Options{Gap: DefaultGap, MaxHeight: DefaultMaxHeight, FallbackHeight: DefaultFallbackHeight}
}

func (o Options) withDefaults() Options {
	o.Gap = max(0, o.Gap)
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.FallbackHeight <= 0 {
		o.FallbackHeight = DefaultFallbackHeight
	}
	return o
}

// Side says which side of the anchor the overlay was placed on.
type Side int

const (
	SideBelow Side = iota
	SideAbove
)

func (s Side) String() string {
	if s == SideAbove {
		return "above"
	}
	return "below"
}

// Placement is the outcome of the last Reposition. Top and Left are relative
// to the scroll container's content origin (or the viewport when there is no
// scroll container) and include the container's scroll offset.
type Placement struct {
	Top     int
	Left    int
	Height  int
	Side    Side
	Clamped bool
}

// RepositionMsg asks the host loop to call Reposition on Handle. It is emitted
// by ScheduleReposition so the first placement runs after content is painted.
type RepositionMsg struct {
	Handle *Handle
}

// Handle is a live overlay.
type Handle struct {
	host      *surface.Node
	window    *surface.Window
	coords    CoordsFunc
	opts      Options
	anchor    surface.Pos
	element   *surface.Node
	body      *surface.Node
	container *surface.Node

	placement Placement
	placed    bool
	removers  []func()
	destroyed bool

	log *slog.Logger
}

// Create mounts an overlay for the editing surface host, anchored at anchor.
// The scroll container is resolved once here and cached for the handle's
// lifetime.
func Create(host *surface.Node, win *surface.Window, coords CoordsFunc, anchor surface.Pos, opts Options) *Handle {
	h := &Handle{
		host:      host,
		window:    win,
		coords:    coords,
		opts:      opts.withDefaults(),
		anchor:    anchor,
		element:   surface.NewNode("popup"),
		body:      surface.NewNode("popup-body"),
		container: surface.ScrollContainer(host),
		log:       logging.New("popup"),
	}
	h.element.AppendChild(h.body)

	if h.container != nil {
		h.container.AppendChild(h.element)
		h.removers = append(h.removers, h.container.OnScroll(h.Reposition))
	} else if win != nil {
		win.Root().AppendChild(h.element)
	}
	if win != nil {
		h.removers = append(h.removers, win.OnResize(h.Reposition))
	}
	h.log.Debug("popup mounted", "anchor", int(anchor), "scroll_container", h.container != nil)
	return h
}

// Element returns the overlay's node.
func (h *Handle) Element() *surface.Node { return h.element }

// Container returns the cached scroll container, or nil when the viewport is
// the positioning frame.
func (h *Handle) Container() *surface.Node { return h.container }

// AnchorPos returns the stored anchor.
func (h *Handle) AnchorPos() surface.Pos { return h.anchor }

// SetAnchorPos stores a new anchor. It does not reposition; callers batch it
// with their other state changes and call Reposition afterwards.
func (h *Handle) SetAnchorPos(pos surface.Pos) { h.anchor = pos }

// SetContent replaces the rendered content used to measure the overlay's
// natural height.
func (h *Handle) SetContent(view string) {
	if h.destroyed {
		return
	}
	h.body.SetContent(view)
}

// Placement returns the result of the last Reposition.
func (h *Handle) Placement() Placement { return h.placement }

// Placed reports whether Reposition has run at least once.
func (h *Handle) Placed() bool { return h.placed }

// Destroyed reports whether Destroy has been called.
func (h *Handle) Destroyed() bool { return h.destroyed }

// ScheduleReposition returns a command that asks the host loop to reposition
// on its next turn, after the current frame has been drawn.
func (h *Handle) ScheduleReposition() tea.Cmd {
	return func() tea.Msg {
		return RepositionMsg{Handle: h}
	}
}

// Reposition recomputes the overlay's placement. It is a no-op once the
// handle has been destroyed, which makes late scroll or resize notifications
// harmless.
func (h *Handle) Reposition() {
	if h.destroyed {
		return
	}

	frame := h.frame()
	anchor := h.coords(h.anchor)

	spaceBelow := frame.Bottom - anchor.Bottom - h.opts.Gap
	spaceAbove := anchor.Top - frame.Top - h.opts.Gap
	natural := min(h.naturalHeight(), h.opts.MaxHeight)

	p := Placement{Height: natural}
	switch {
	case spaceBelow >= natural:
		p.Side = SideBelow
	case spaceAbove >= natural:
		p.Side = SideAbove
	case spaceAbove > spaceBelow:
		p.Side = SideAbove
		p.Height = max(0, spaceAbove)
		p.Clamped = true
	default:
		p.Side = SideBelow
		p.Height = max(0, spaceBelow)
		p.Clamped = true
	}

	var top int
	if p.Side == SideBelow {
		top = anchor.Bottom + h.opts.Gap
	} else {
		top = anchor.Top - h.opts.Gap - p.Height
	}

	scrollTop, scrollLeft := h.scrollOffset()
	p.Top = top - frame.Top + scrollTop
	p.Left = anchor.Left - frame.Left + scrollLeft

	h.placement = p
	h.placed = true
	h.element.SetBounds(h.ViewportRect())
	h.log.Debug("popup repositioned",
		"side", p.Side.String(),
		"top", p.Top,
		"left", p.Left,
		"height", p.Height,
		"clamped", p.Clamped,
		"space_above", spaceAbove,
		"space_below", spaceBelow,
	)
}

// ViewportRect converts the stored placement back to viewport cells using the
// container's current scroll offset. The rectangle's width is the widest line
// of the rendered content.
func (h *Handle) ViewportRect() surface.Rect {
	frame := h.frame()
	scrollTop, scrollLeft := h.scrollOffset()
	top := h.placement.Top + frame.Top - scrollTop
	left := h.placement.Left + frame.Left - scrollLeft
	return surface.Rect{
		Top:    top,
		Left:   left,
		Bottom: top + h.placement.Height,
		Right:  left + lipgloss.Width(h.body.Content()),
	}
}

// Frame returns the visible content box the overlay is positioned within.
func (h *Handle) Frame() surface.Rect { return h.frame() }

// Destroy releases the overlay. Listeners are removed before the element is
// detached, so no notification can observe a half torn down overlay. Calling
// Destroy more than once is safe.
func (h *Handle) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	for _, remove := range h.removers {
		remove()
	}
	h.removers = nil
	h.element.Remove()
	h.log.Debug("popup destroyed", "anchor", int(h.anchor))
}

func (h *Handle) frame() surface.Rect {
	if h.container != nil {
		return h.container.ContentBox()
	}
	if h.opts.Viewport != nil {
		return h.opts.Viewport()
	}
	if h.window != nil {
		return h.window.Bounds()
	}
	return surface.Rect{}
}

func (h *Handle) scrollOffset() (int, int) {
	if h.container == nil {
		return 0, 0
	}
	return h.container.ScrollTop(), h.container.ScrollLeft()
}

func (h *Handle) naturalHeight() int {
	children := h.element.Children()
	if len(children) == 0 || children[0].ScrollHeight() == 0 {
		return h.opts.FallbackHeight
	}
	return children[0].ScrollHeight()
}
