// Package surface models the terminal as a tree of cell-addressed boxes.
//
// A Node is the terminal counterpart of a document element: it has a parent,
// children, a lipgloss frame (border and padding), a viewport-relative
// border-box, an overflow mode and, when it scrolls, a scroll offset and a
// scroll height. A Window is the root of the tree and tracks the terminal size.
//
// Nodes and windows dispatch scroll and resize notifications to registered
// listeners synchronously, on the caller's goroutine. Everything here is meant
// to be driven from the Bubble Tea update loop and is not safe for concurrent
// use.
package surface

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Pos is an opaque document position handed out by the host editor.
type Pos int

// Range is the span of document positions a trigger occupies.
type Range struct {
	From Pos
	To   Pos
}

// Len returns the number of positions covered by the range.
func (r Range) Len() int {
	return max(0, int(r.To-r.From))
}

// Rect is a viewport-relative rectangle in terminal cells. Bottom and Right
// are exclusive.
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int { return max(0, r.Bottom-r.Top) }

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int { return max(0, r.Right-r.Left) }

// Contains reports whether the cell at (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Translate moves the rectangle by dy rows and dx columns.
func (r Rect) Translate(dy, dx int) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Bottom: r.Bottom + dy, Right: r.Right + dx}
}

// Overflow is the vertical overflow mode of a node.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowAuto
	OverflowScroll
	OverflowOverlay
)

func (o Overflow) String() string {
	switch o {
	case OverflowVisible:
		return "visible"
	case OverflowHidden:
		return "hidden"
	case OverflowAuto:
		return "auto"
	case OverflowScroll:
		return "scroll"
	case OverflowOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// scrolls reports whether the overflow mode lets the user scroll content.
func (o Overflow) scrolls() bool {
	return o == OverflowAuto || o == OverflowScroll || o == OverflowOverlay
}

// Node is one box in the layout tree.
type Node struct {
	Name     string
	Style    lipgloss.Style
	Overflow Overflow

	parent   *Node
	children []*Node

	bounds       Rect
	scrollTop    int
	scrollLeft   int
	scrollHeight int
	content      string

	listeners listenerSet
}

// NewNode returns a detached node with an empty frame.
func NewNode(name string) *Node {
	return &Node{Name: name, Style: lipgloss.NewStyle()}
}

// Parent returns the node's parent, or nil for roots and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node { return n.children }

// AppendChild attaches child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches n from its parent. Removing a detached node does nothing.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Attached reports whether n currently has a parent.
func (n *Node) Attached() bool { return n.parent != nil }

// SetBounds sets the node's border-box in viewport cells.
func (n *Node) SetBounds(r Rect) { n.bounds = r }

// Bounds returns the node's border-box in viewport cells.
func (n *Node) Bounds() Rect { return n.bounds }

// ContentBox returns the node's bounds minus its border and padding.
func (n *Node) ContentBox() Rect {
	s := n.Style
	return Rect{
		Top:    n.bounds.Top + s.GetBorderTopSize() + s.GetPaddingTop(),
		Left:   n.bounds.Left + s.GetBorderLeftSize() + s.GetPaddingLeft(),
		Bottom: n.bounds.Bottom - s.GetBorderBottomSize() - s.GetPaddingBottom(),
		Right:  n.bounds.Right - s.GetBorderRightSize() - s.GetPaddingRight(),
	}
}

// ClientHeight is the visible inner height: bounds minus vertical borders.
func (n *Node) ClientHeight() int {
	return max(0, n.bounds.Height()-n.Style.GetBorderTopSize()-n.Style.GetBorderBottomSize())
}

// ScrollHeight is the height of the node's full content.
func (n *Node) ScrollHeight() int { return n.scrollHeight }

// SetScrollHeight records the height of the node's full content.
func (n *Node) SetScrollHeight(h int) { n.scrollHeight = max(0, h) }

// SetContent stores rendered content and measures its height.
func (n *Node) SetContent(content string) {
	n.content = content
	if content == "" {
		n.scrollHeight = 0
		return
	}
	n.scrollHeight = lipgloss.Height(content) + n.Style.GetPaddingTop() + n.Style.GetPaddingBottom()
}

// Content returns the last content stored with SetContent.
func (n *Node) Content() string { return n.content }

// ScrollTop returns the vertical scroll offset.
func (n *Node) ScrollTop() int { return n.scrollTop }

// ScrollLeft returns the horizontal scroll offset.
func (n *Node) ScrollLeft() int { return n.scrollLeft }

// ScrollTo moves the scroll offset and notifies scroll listeners when it
// changed. Negative offsets are clamped to zero.
func (n *Node) ScrollTo(top, left int) {
	top, left = max(0, top), max(0, left)
	if top == n.scrollTop && left == n.scrollLeft {
		return
	}
	n.scrollTop, n.scrollLeft = top, left
	n.listeners.dispatch()
}

// OnScroll registers fn for scroll notifications. The returned function
// unregisters it and may be called any number of times.
func (n *Node) OnScroll(fn func()) func() {
	return n.listeners.add(fn)
}

// ListenerCount reports how many scroll listeners are registered.
func (n *Node) ListenerCount() int { return n.listeners.len() }

// Window is the root of a layout tree and stands in for the terminal viewport.
type Window struct {
	root      *Node
	width     int
	height    int
	listeners listenerSet
}

// NewWindow returns a window of the given size with an empty root node.
func NewWindow(width, height int) *Window {
	w := &Window{root: NewNode("root")}
	w.setSize(width, height)
	return w
}

// Root returns the document root node.
func (w *Window) Root() *Node { return w.root }

// Bounds returns the full viewport rectangle.
func (w *Window) Bounds() Rect {
	return Rect{Top: 0, Left: 0, Bottom: w.height, Right: w.width}
}

// Size returns the viewport width and height.
func (w *Window) Size() (int, int) { return w.width, w.height }

// Resize updates the viewport size and notifies resize listeners.
func (w *Window) Resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.setSize(width, height)
	w.listeners.dispatch()
}

// OnResize registers fn for resize notifications. The returned function
// unregisters it and may be called any number of times.
func (w *Window) OnResize(fn func()) func() {
	return w.listeners.add(fn)
}

// ListenerCount reports how many resize listeners are registered.
func (w *Window) ListenerCount() int { return w.listeners.len() }

func (w *Window) setSize(width, height int) {
	w.width, w.height = max(0, width), max(0, height)
	w.root.SetBounds(w.Bounds())
}

type listenerSet struct {
	next int
	fns  map[int]func()
}

func (s *listenerSet) add(fn func()) func() {
	if s.fns == nil {
		s.fns = map[int]func(){}
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		delete(s.fns, id)
	}
}

func (s *listenerSet) len() int { return len(s.fns) }

// dispatch calls every listener registered at the time of the call. Listeners
// removed by an earlier listener in the same dispatch are skipped.
func (s *listenerSet) dispatch() {
	if len(s.fns) == 0 {
		return
	}
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.fns[id]; ok {
			fn()
		}
	}
}
