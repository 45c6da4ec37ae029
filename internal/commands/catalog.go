// Package commands holds the block-command palette: the static catalog shown
// after "/" and the executor that applies a chosen command to the document.
package commands

import "github.com/treykane/cli-notes-suggest/internal/suggest"

// Command identifiers understood by Execute.
const (
	IDHeading1 = "block.heading1"
	IDHeading2 = "block.heading2"
	IDHeading3 = "block.heading3"
	IDBullet   = "block.bullet"
	IDNumbered = "block.numbered"
	IDTodo     = "block.todo"
	IDQuote    = "block.quote"
	IDCode     = "block.code"
	IDDivider  = "block.divider"
	IDTable    = "insert.table"
	IDDate     = "insert.date"
	IDPreview  = "view.preview"
)

var catalog = []suggest.Command{
	{Name: "h1", Title: "Heading 1", Description: "Large section heading", Icon: suggest.IconHeading, CommandID: IDHeading1},
	{Name: "h2", Title: "Heading 2", Description: "Medium section heading", Icon: suggest.IconHeading, CommandID: IDHeading2},
	{Name: "h3", Title: "Heading 3", Description: "Small section heading", Icon: suggest.IconHeading, CommandID: IDHeading3},
	{Name: "ul", Title: "Bullet list", Description: "Unordered list item", Icon: suggest.IconList, CommandID: IDBullet},
	{Name: "ol", Title: "Numbered list", Description: "Ordered list item", Icon: suggest.IconOrdered, CommandID: IDNumbered},
	{Name: "todo", Title: "To-do", Description: "Checkbox item", Icon: suggest.IconTodo, CommandID: IDTodo},
	{Name: "quote", Title: "Quote", Description: "Block quotation", Icon: suggest.IconQuote, CommandID: IDQuote},
	{Name: "code", Title: "Code block", Description: "Fenced code", Icon: suggest.IconCode, CommandID: IDCode},
	{Name: "hr", Title: "Divider", Description: "Horizontal rule", Icon: suggest.IconDivider, CommandID: IDDivider},
	{Name: "table", Title: "Table", Description: "Two-column table", Icon: suggest.IconTable, CommandID: IDTable},
	{Name: "date", Title: "Today's date", Description: "Insert the current date", Icon: suggest.IconCalendar, CommandID: IDDate},
	{Name: "preview", Title: "Preview", Description: "Render the document", Icon: suggest.IconPreview, CommandID: IDPreview},
}

// Catalog returns the palette entries in display order. The returned slice is
// shared; callers must not modify it.
func Catalog() []suggest.Command { return catalog }

// Lookup finds a command by its CommandID.
func Lookup(id string) (suggest.Command, bool) {
	for _, c := range catalog {
		if c.CommandID == id {
			return c, true
		}
	}
	return suggest.Command{}, false
}
