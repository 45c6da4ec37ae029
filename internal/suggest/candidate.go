package suggest

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Candidate is one selectable row in a suggestion list.
type Candidate interface {
	ID() string
	Label() string
}

// Mention identifies a person in the directory.
type Mention struct {
	PersonID string `json:"id"`
	Name     string `json:"name"`
	Handle   string `json:"handle,omitempty"`
}

func (m Mention) ID() string    { return m.PersonID }
func (m Mention) Label() string { return m.Name }

// Icon is a symbolic icon reference, resolved to a glyph when rendered.
type Icon string

const (
	IconHeading  Icon = "heading"
	IconList     Icon = "list"
	IconOrdered  Icon = "ordered"
	IconTodo     Icon = "todo"
	IconQuote    Icon = "quote"
	IconCode     Icon = "code"
	IconDivider  Icon = "divider"
	IconTable    Icon = "table"
	IconCalendar Icon = "calendar"
	IconPreview  Icon = "preview"
)

var iconGlyphs = map[Icon]string{
	IconHeading:  "H",
	IconList:     "•",
	IconOrdered:  "#",
	IconTodo:     "☐",
	IconQuote:    "❝",
	IconCode:     "λ",
	IconDivider:  "─",
	IconTable:    "▦",
	IconCalendar: "◷",
	IconPreview:  "◎",
}

// Glyph returns the single-cell glyph drawn for the icon.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return "·"
}

// Command is an entry in the block-command palette. Name is the stable
// machine identifier users can type; CommandID is handed to the executor.
type Command struct {
	Name        string
	Title       string
	Description string
	Icon        Icon
	CommandID   string
}

func (c Command) ID() string    { return c.Name }
func (c Command) Label() string { return c.Title }

// MentionKeys returns the strings a mention query is matched against.
func MentionKeys(m Mention) []string { return []string{m.Name} }

// CommandKeys matches commands on their title and machine name.
func CommandKeys(c Command) []string { return []string{c.Title, c.Name} }

var (
	avatarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	iconStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// RenderMention draws an identity badge followed by the name and, when set,
// the muted handle.
func RenderMention(m Mention, _ bool) string {
	row := avatarStyle.Render(initial(m.Name)) + " " + m.Name
	if m.Handle != "" {
		row += " " + mutedStyle.Render("@"+strings.TrimPrefix(m.Handle, "@"))
	}
	return row
}

// RenderCommand draws the command's icon, title and description.
func RenderCommand(c Command, _ bool) string {
	row := iconStyle.Render(c.Icon.Glyph()) + " " + c.Title
	if c.Description != "" {
		row += "  " + mutedStyle.Render(c.Description)
	}
	return row
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
