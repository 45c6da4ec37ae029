package app

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// documentStats are the counters shown in the footer.
type documentStats struct {
	words    int
	runes    int
	lines    int
	mentions int
}

func computeDocumentStats(text string) documentStats {
	if text == "" {
		return documentStats{}
	}
	stats := documentStats{
		runes: utf8.RuneCountInString(text),
		lines: strings.Count(text, "\n"),
	}
	if !strings.HasSuffix(text, "\n") {
		stats.lines++
	}
	for _, word := range strings.Fields(text) {
		stats.words++
		if len(word) > 1 && word[0] == '@' {
			stats.mentions++
		}
	}
	return stats
}

// documentSummary renders the stats, e.g. "W:12 C:80 L:3 @:2". Mentions are
// left out when there are none.
func (m *Model) documentSummary() string {
	text := m.editor.Text()
	if strings.TrimSpace(text) == "" {
		return ""
	}
	stats := computeDocumentStats(text)
	summary := fmt.Sprintf("W:%d C:%d L:%d", stats.words, stats.runes, stats.lines)
	if stats.mentions > 0 {
		summary += fmt.Sprintf(" @:%d", stats.mentions)
	}
	return summary
}
