package editor

import (
	"slices"
	"unicode"

	"github.com/treykane/cli-notes-suggest/internal/surface"
)

// Match is an active trigger before the cursor.
type Match struct {
	Char  rune
	Range surface.Range
	Query string
}

// MatchTrigger looks backward from the cursor for one of chars. A trigger
// counts when it starts a word (line start or after whitespace) and only
// non-space text separates it from the cursor on the same line. The range
// spans from the trigger character to the cursor.
func (e *Editor) MatchTrigger(chars ...rune) (Match, bool) {
	for i := e.cursor - 1; i >= 0; i-- {
		r := e.buf[i]
		if unicode.IsSpace(r) {
			return Match{}, false
		}
		if !slices.Contains(chars, r) {
			continue
		}
		if i > 0 && !unicode.IsSpace(e.buf[i-1]) {
			continue
		}
		return Match{
			Char:  r,
			Range: surface.Range{From: surface.Pos(i), To: surface.Pos(e.cursor)},
			Query: string(e.buf[i+1 : e.cursor]),
		}, true
	}
	return Match{}, false
}
