package commands

import (
	"container/list"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// maxRenderers bounds the number of width-specific Glamour renderers kept.
const maxRenderers = 8

// PreviewMsg carries a finished document preview back to the update loop.
// Seq increases with every request so late results can be discarded.
type PreviewMsg struct {
	Seq     int
	Width   int
	Content string
	Err     error
}

// Renderer turns Markdown into ANSI output with Glamour. Renderers are
// cached per width bucket in LRU order because creating one parses the
// style sheet.
type Renderer struct {
	style string
	seq   int

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
	order *list.List
	nodes map[int]*list.Element
}

// NewRenderer returns a renderer using the named Glamour style: "dark",
// "light", "notty" or "auto". Unknown names fall back to "dark".
func NewRenderer(style string) *Renderer {
	return &Renderer{
		style: strings.ToLower(strings.TrimSpace(style)),
		cache: map[int]*glamour.TermRenderer{},
		order: list.New(),
		nodes: map[int]*list.Element{},
	}
}

// Seq returns the sequence number of the latest request.
func (r *Renderer) Seq() int { return r.seq }

// RenderCmd renders content off the update loop and reports a PreviewMsg.
// It must be called from the update loop.
func (r *Renderer) RenderCmd(content string, width int) tea.Cmd {
	r.seq++
	seq := r.seq
	width = widthBucket(width)
	return func() tea.Msg {
		out, err := r.Render(content, width)
		return PreviewMsg{Seq: seq, Width: width, Content: out, Err: err}
	}
}

// Render converts content synchronously. On failure the raw Markdown is
// returned together with the error so callers can still show something.
func (r *Renderer) Render(content string, width int) (string, error) {
	tr, err := r.get(widthBucket(width))
	if err != nil {
		cmdLog.Error("create markdown renderer", "width", width, "error", err)
		return content, err
	}
	out, err := tr.Render(content)
	if err != nil {
		cmdLog.Error("render markdown content", "width", width, "error", err)
		return content, err
	}
	return out, nil
}

func (r *Renderer) get(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[width]; ok {
		if node, ok := r.nodes[width]; ok {
			r.order.MoveToBack(node)
		}
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		r.styleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	r.nodes[width] = r.order.PushBack(width)
	for len(r.cache) > maxRenderers && r.order.Len() > 0 {
		oldest := r.order.Front()
		w, _ := oldest.Value.(int)
		r.order.Remove(oldest)
		delete(r.cache, w)
		delete(r.nodes, w)
	}
	return tr, nil
}

// cached reports how many renderers are held.
func (r *Renderer) cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Renderer) styleOption() glamour.TermRendererOption {
	switch r.style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(r.style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}

// widthBucket rounds widths down to multiples of 20 so small resizes reuse
// renderers.
func widthBucket(width int) int {
	if width <= 0 {
		return 80
	}
	if width < 20 {
		return width
	}
	return (width / 20) * 20
}
