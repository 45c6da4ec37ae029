package commands

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/suggest"
	"github.com/treykane/cli-notes-suggest/internal/surface"
)

var cmdLog = logging.New("commands")

// Document is the editing API commands mutate.
type Document interface {
	Text() string
	Replace(rng surface.Range, text string)
	SetCursor(pos surface.Pos)
}

// Executor applies block commands.
type Executor struct {
	// Now is the clock used by the date command.
	Now func() time.Time
	// DateLayout formats inserted dates.
	DateLayout string
	// Renderer renders previews. Nil disables the preview command.
	Renderer *Renderer
	// PreviewWidth is the wrap width handed to the renderer.
	PreviewWidth func() int
}

// NewExecutor returns an executor with the wall clock and ISO dates.
func NewExecutor(r *Renderer) *Executor {
	return &Executor{
		Now:        time.Now,
		DateLayout: "2006-01-02",
		Renderer:   r,
	}
}

var blockPrefixes = map[string]string{
	IDHeading1: "# ",
	IDHeading2: "## ",
	IDHeading3: "### ",
	IDBullet:   "- ",
	IDNumbered: "1. ",
	IDTodo:     "- [ ] ",
	IDQuote:    "> ",
	IDDivider:  "---\n",
}

const tableTemplate = "| Column | Column |\n| --- | --- |\n|  |  |\n"

// Execute replaces rng, the trigger and its query, with the command's
// Markdown. Commands with follow-up work return it as a tea.Cmd.
func (x *Executor) Execute(doc Document, c suggest.Command, rng surface.Range) tea.Cmd {
	cmdLog.Debug("execute command", "command", c.CommandID, "from", int(rng.From), "to", int(rng.To))

	if prefix, ok := blockPrefixes[c.CommandID]; ok {
		doc.Replace(rng, prefix)
		return nil
	}

	switch c.CommandID {
	case IDCode:
		doc.Replace(rng, "```\n\n```")
		doc.SetCursor(rng.From + surface.Pos(len("```\n")))
	case IDTable:
		doc.Replace(rng, tableTemplate)
		// Leave the cursor in the first body cell.
		doc.SetCursor(rng.From + surface.Pos(strings.Index(tableTemplate, "|  |")+2))
	case IDDate:
		doc.Replace(rng, x.Now().Format(x.DateLayout))
	case IDPreview:
		doc.Replace(rng, "")
		if x.Renderer == nil {
			return nil
		}
		width := 80
		if x.PreviewWidth != nil {
			width = x.PreviewWidth()
		}
		return x.Renderer.RenderCmd(doc.Text(), width)
	default:
		cmdLog.Warn("unknown command", "command", c.CommandID)
	}
	return nil
}
