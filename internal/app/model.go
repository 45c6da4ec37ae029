package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/treykane/cli-notes-suggest/internal/commands"
	"github.com/treykane/cli-notes-suggest/internal/config"
	"github.com/treykane/cli-notes-suggest/internal/directory"
	"github.com/treykane/cli-notes-suggest/internal/editor"
	"github.com/treykane/cli-notes-suggest/internal/popup"
	"github.com/treykane/cli-notes-suggest/internal/suggest"
	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// Options configures New.
type Options struct {
	Config config.Config
	// Document is the Markdown file edited and saved with Ctrl+S. It may not
	// exist yet.
	Document string
	// People backs the "@" suggestions. Nil starts with an empty directory.
	People *directory.Directory
	// Zones tracks clickable popup rows. Nil creates a private manager.
	Zones *zone.Manager
	// PollPeople enables the polling watcher for the people file. The CLI sets
	// it when filesystem notifications are unavailable.
	PollPeople bool
}

// Model holds the Bubble Tea state for the editor and its suggestion
// overlays.
type Model struct {
	cfg     config.Config
	docPath string

	win      *surface.Window
	editor   *editor.Editor
	people   *directory.Directory
	zones    *zone.Manager
	mention  *suggest.Controller[suggest.Mention]
	commands *suggest.Controller[suggest.Command]
	executor *commands.Executor
	renderer *commands.Renderer

	// Suggestion bookkeeping
	overlay   overlayMode
	trigger   suggest.Trigger
	dismissed *dismissal

	// UI widgets
	keys        keyMap
	help        help.Model
	preview     viewport.Model
	showPreview bool
	status      string
	quitArmed   bool

	// Layout sizing
	width  int
	height int

	// People file polling
	pollPeople        bool
	peopleWatchEvery  time.Duration
	peopleFileState   peopleFileState
	peopleWatchPrimed bool
}

// New prepares the model and loads the document when it exists.
func New(opts Options) (*Model, error) {
	people := opts.People
	if people == nil {
		people = directory.New()
	}
	zones := opts.Zones
	if zones == nil {
		zones = zone.New()
	}

	m := &Model{
		cfg:              opts.Config,
		docPath:          opts.Document,
		win:              surface.NewWindow(0, 0),
		editor:           editor.New(),
		people:           people,
		zones:            zones,
		keys:             defaultKeyMap(),
		help:             help.New(),
		preview:          viewport.New(0, 0),
		status:           "Ready",
		pollPeople:       opts.PollPeople && opts.Config.PeopleFile != "",
		peopleWatchEvery: opts.Config.Watch.PollInterval,
	}
	m.win.Root().AppendChild(m.editor.Pane())
	m.renderer = commands.NewRenderer(opts.Config.Preview.Style)
	m.executor = commands.NewExecutor(m.renderer)
	m.executor.PreviewWidth = m.previewWidth

	m.mention = suggest.NewController(suggest.Config[suggest.Mention]{
		Name:         "mention",
		Source:       people.Snapshot,
		Keys:         suggest.MentionKeys,
		Limit:        opts.Config.Mention.Limit,
		Render:       suggest.RenderMention,
		Command:      m.insertMention,
		Mount:        m.mountPopup,
		MaxVisible:   opts.Config.List.MaxVisible,
		Width:        opts.Config.List.Width,
		EmptyMessage: "No people match",
		Zones:        zones,
	})
	m.commands = suggest.NewController(suggest.Config[suggest.Command]{
		Name:         "command",
		Source:       commands.Catalog,
		Keys:         suggest.CommandKeys,
		Render:       suggest.RenderCommand,
		Command:      m.runCommand,
		Mount:        m.mountPopup,
		MaxVisible:   opts.Config.List.MaxVisible,
		Width:        opts.Config.List.Width,
		EmptyMessage: "No commands match",
		Zones:        zones,
	})

	if err := m.loadDocument(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init starts the people file poller when it is enabled.
func (m *Model) Init() tea.Cmd {
	return m.schedulePeopleWatchTick()
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case popup.RepositionMsg:
		return m.handleReposition(msg)
	case commands.PreviewMsg:
		return m.handlePreview(msg)
	case PeopleReloadedMsg:
		return m.handlePeopleReloaded(msg)
	case peopleWatchTickMsg:
		return m.handlePeopleWatchTick(msg)
	}
	return m, nil
}

// mountPopup creates the overlay for a session. Without a scroll container
// the overlay is framed by the editor pane's content box, the only area the
// popup is drawn into.
func (m *Model) mountPopup(anchor surface.Pos) *popup.Handle {
	opts := m.cfg.PopupOptions()
	opts.Viewport = m.editor.Pane().ContentBox
	return popup.Create(m.editor.Surface(), m.win, m.editor.CoordsAtPos, anchor, opts)
}

// insertMention replaces the trigger and query with the person's mention
// text followed by a space.
func (m *Model) insertMention(p suggest.Mention, rng surface.Range) tea.Cmd {
	m.editor.Replace(rng, mentionText(p)+" ")
	m.status = "Mentioned " + p.Name
	return nil
}

func mentionText(p suggest.Mention) string {
	if p.Handle != "" {
		return "@" + p.Handle
	}
	return "@" + p.Name
}

func (m *Model) runCommand(c suggest.Command, rng surface.Range) tea.Cmd {
	cmd := m.executor.Execute(m.editor, c, rng)
	if cmd != nil {
		m.status = "Rendering preview..."
	} else {
		m.status = c.Title
	}
	return cmd
}

func (m *Model) loadDocument() error {
	if m.docPath == "" {
		return nil
	}
	data, err := os.ReadFile(m.docPath)
	if errors.Is(err, os.ErrNotExist) {
		m.status = "New file " + filepath.Base(m.docPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	m.editor.SetText(string(data))
	m.status = "Opened " + filepath.Base(m.docPath)
	return nil
}

func (m *Model) saveDocument() {
	if m.docPath == "" {
		m.status = "No document path (start with a file argument)"
		return
	}
	if err := os.MkdirAll(filepath.Dir(m.docPath), DirPermission); err != nil {
		m.setStatusError("Error saving document", err, "path", m.docPath)
		return
	}
	if err := os.WriteFile(m.docPath, []byte(m.editor.Text()), FilePermission); err != nil {
		m.setStatusError("Error saving document", err, "path", m.docPath)
		return
	}
	m.editor.MarkClean()
	m.quitArmed = false
	m.status = "Saved " + filepath.Base(m.docPath)
	appLog.Info("saved document", "path", m.docPath)
}
