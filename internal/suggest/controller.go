// Package suggest drives in-document suggestion sessions: a trigger typed in
// the editor opens a candidate list anchored to the text, the user narrows it
// by typing, and a chosen candidate is handed to a command callback.
//
// A Controller runs one session at a time for one trigger character. Its
// lifecycle is driven by the host editor through OnStart, OnUpdate, OnKeyDown
// and OnExit; all of them are safe to call in any state.
package suggest

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/popup"
	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// Trigger is what the host editor's trigger detection reports.
type Trigger struct {
	Char   rune
	Anchor surface.Pos
	Range  surface.Range
	Query  string
}

// Session is a snapshot of the active session.
type Session struct {
	ID     string
	Char   rune
	Anchor surface.Pos
	Range  surface.Range
	Query  string
}

// Config wires a Controller to its candidate source, renderer and command.
type Config[T Candidate] struct {
	// Name tags log entries, e.g. "mention".
	Name string
	// Source returns the latest candidate snapshot. It is called on every
	// filter, so refreshed data is picked up mid-session.
	Source func() []T
	// Keys lists the strings a query is matched against.
	Keys func(T) []string
	// Limit caps the filtered sequence; zero means unbounded.
	Limit int
	// Render draws one row.
	Render ItemRenderer[T]
	// Command applies the chosen candidate to the trigger's range. The
	// returned command carries any deferred work back to the host loop.
	Command func(T, surface.Range) tea.Cmd
	// Mount creates the overlay for a new session.
	Mount func(anchor surface.Pos) *popup.Handle

	MaxVisible   int
	Width        int
	EmptyMessage string
	KeyMap       *KeyMap
	Zones        *zone.Manager
}

// Controller owns the suggestion session for one trigger.
type Controller[T Candidate] struct {
	cfg   Config[T]
	keys  KeyMap
	list  *List[T]
	popup *popup.Handle

	session *Session

	// lastQuery, lastSource and lastResult memoize the previous filter so an
	// anchor-only update keeps the same slice and therefore the highlight.
	lastQuery  string
	lastSource []T
	lastResult []T

	log *slog.Logger
}

// NewController builds an idle controller.
func NewController[T Candidate](cfg Config[T]) *Controller[T] {
	c := &Controller[T]{
		cfg:  cfg,
		keys: DefaultKeyMap(),
		log:  logging.New("suggest").With("trigger", cfg.Name),
	}
	if cfg.KeyMap != nil {
		c.keys = *cfg.KeyMap
	}

	opts := []ListOption{WithKeyMap(c.keys)}
	if cfg.MaxVisible > 0 {
		opts = append(opts, WithMaxVisible(cfg.MaxVisible))
	}
	if cfg.Width > 0 {
		opts = append(opts, WithWidth(cfg.Width))
	}
	if cfg.EmptyMessage != "" {
		opts = append(opts, WithEmptyMessage(cfg.EmptyMessage))
	}
	if cfg.Zones != nil {
		opts = append(opts, WithZones(cfg.Zones))
	}
	c.list = NewList(cfg.Render, c.commit, opts...)
	return c
}

// Active reports whether a session is open.
func (c *Controller[T]) Active() bool { return c.session != nil }

// Session returns a copy of the active session.
func (c *Controller[T]) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Popup returns the live overlay, or nil when idle.
func (c *Controller[T]) Popup() *popup.Handle { return c.popup }

// List exposes the candidate list.
func (c *Controller[T]) List() *List[T] { return c.list }

// KeyMap returns the bindings the controller intercepts.
func (c *Controller[T]) KeyMap() KeyMap { return c.keys }

// OnStart opens a session. It is ignored while another session is active.
// The returned command requests the first placement once the list has been
// drawn.
func (c *Controller[T]) OnStart(t Trigger) tea.Cmd {
	if c.session != nil {
		c.log.Warn("start ignored, session already active", "session", c.session.ID)
		return nil
	}
	c.session = &Session{
		ID:     uuid.NewString(),
		Char:   t.Char,
		Anchor: t.Anchor,
		Range:  t.Range,
		Query:  t.Query,
	}
	c.popup = c.cfg.Mount(t.Anchor)
	c.refresh()
	c.log.Debug("session started",
		"session", c.session.ID,
		"anchor", int(t.Anchor),
		"candidates", c.list.Len(),
	)
	return c.popup.ScheduleReposition()
}

// OnUpdate applies a new query, range and anchor. It does nothing when idle.
func (c *Controller[T]) OnUpdate(t Trigger) {
	if c.session == nil {
		return
	}
	c.session.Anchor = t.Anchor
	c.session.Range = t.Range
	c.session.Query = t.Query
	c.refresh()
	c.popup.SetAnchorPos(t.Anchor)
	c.popup.Reposition()
	c.list.SetHeightLimit(c.popup.Placement().Height)
}

// OnKeyDown offers a key to the session and reports whether it was consumed.
// Idle controllers consume nothing.
func (c *Controller[T]) OnKeyDown(msg tea.KeyMsg) (bool, tea.Cmd) {
	if c.session == nil {
		return false, nil
	}
	if key.Matches(msg, c.keys.Dismiss) {
		c.end("dismissed")
		return true, nil
	}
	return c.list.OnKeyDown(msg)
}

// HandleMouse routes pointer events that land on the list. A press commits
// the row under the pointer; motion moves the highlight. Wheel events and
// events elsewhere are left to the host, so wheeling over the list scrolls
// the document and the overlay follows its anchor.
func (c *Controller[T]) HandleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if c.session == nil || tea.MouseEvent(msg).IsWheel() {
		return false, nil
	}
	i, ok := c.list.HitTest(msg)
	if !ok {
		return false, nil
	}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return true, c.list.SelectAt(i)
	case msg.Action == tea.MouseActionMotion:
		c.list.HighlightAt(i)
	}
	return true, nil
}

// OnExit ends the session and destroys the overlay. It is a no-op when idle.
func (c *Controller[T]) OnExit() { c.end("exit") }

// Reposition re-places the overlay and applies the resulting height clamp to
// the list.
func (c *Controller[T]) Reposition() {
	if c.session == nil {
		return
	}
	c.popup.Reposition()
	c.list.SetHeightLimit(c.popup.Placement().Height)
}

// View renders the list at its placed height, or nothing before the first
// placement.
func (c *Controller[T]) View() string {
	if c.session == nil || !c.popup.Placed() {
		return ""
	}
	c.list.SetHeightLimit(c.popup.Placement().Height)
	return c.list.View()
}

func (c *Controller[T]) refresh() {
	source := c.cfg.Source()
	query := c.session.Query
	if c.lastResult == nil || query != c.lastQuery || !sameSlice(source, c.lastSource) {
		c.lastResult = Filter(source, query, c.cfg.Limit, c.cfg.Keys)
		c.lastQuery = query
		c.lastSource = source
	}
	c.list.SetItems(c.lastResult)
	c.popup.SetContent(c.list.NaturalView())
}

func (c *Controller[T]) commit(item T) tea.Cmd {
	if c.session == nil {
		return nil
	}
	rng := c.session.Range
	c.log.Debug("candidate chosen", "session", c.session.ID, "id", item.ID(), "from", int(rng.From), "to", int(rng.To))
	var cmd tea.Cmd
	if c.cfg.Command != nil {
		cmd = c.cfg.Command(item, rng)
	}
	c.end("committed")
	return cmd
}

func (c *Controller[T]) end(reason string) {
	if c.session == nil {
		return
	}
	id := c.session.ID
	c.popup.Destroy()
	c.popup = nil
	c.session = nil
	c.lastQuery, c.lastSource, c.lastResult = "", nil, nil
	c.list.SetItems(nil)
	c.list.SetHeightLimit(0)
	c.log.Debug("session ended", "session", id, "reason", reason)
}
