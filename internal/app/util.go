package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// truncate fits a string to the given terminal width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

// truncateWithEllipsis fits a string to width, marking the cut with "…".
func truncateWithEllipsis(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return ansi.Truncate(value, width-1, "") + "…"
}

// padBlock normalizes content to a fixed width and height so old UI text is cleared.
func padBlock(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		line = truncate(line, width)
		visible := lipgloss.Width(line)
		if visible < width {
			line += strings.Repeat(" ", width-visible)
		}
		lines[i] = line
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// overlayAt draws over on top of base with its top-left cell at (top, left).
// Only cells inside clip are replaced; base lines are padded when the overlay
// extends past their end.
func overlayAt(base, over string, top, left int, clip surface.Rect) string {
	lines := strings.Split(base, "\n")
	for i, line := range strings.Split(over, "\n") {
		y := top + i
		if y < 0 || y >= len(lines) || y < clip.Top || y >= clip.Bottom {
			continue
		}
		width := ansi.StringWidth(line)
		start := max(left, clip.Left, 0)
		end := min(left+width, clip.Right)
		if start >= end {
			continue
		}
		seg := line
		if start != left || end != left+width {
			seg = ansi.Cut(line, start-left, end-left)
		}

		under := lines[y]
		if w := ansi.StringWidth(under); w < end {
			under += strings.Repeat(" ", end-w)
		}
		lines[y] = ansi.Truncate(under, start, "") + seg + ansi.Cut(under, end, ansi.StringWidth(under))
	}
	return strings.Join(lines, "\n")
}

func intersect(a, b surface.Rect) surface.Rect {
	r := surface.Rect{
		Top:    max(a.Top, b.Top),
		Left:   max(a.Left, b.Left),
		Bottom: min(a.Bottom, b.Bottom),
		Right:  min(a.Right, b.Right),
	}
	if r.Bottom < r.Top {
		r.Bottom = r.Top
	}
	if r.Right < r.Left {
		r.Right = r.Left
	}
	return r
}
