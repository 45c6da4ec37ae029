package suggest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlN = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyRune  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}
)

type committed[T any] struct {
	items []T
}

func (c *committed[T]) record(item T) tea.Cmd {
	c.items = append(c.items, item)
	return nil
}

func plainMention(m Mention, _ bool) string { return m.Name }

func TestListNavigationWraps(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			l := NewList(plainMention, nil)
			l.SetItems(testPeople()[:n])

			handled, _ := l.OnKeyDown(keyUp)
			require.True(t, handled)
			assert.Equal(t, n-1, l.SelectedIndex(), "up from first wraps to last")

			handled, _ = l.OnKeyDown(keyDown)
			require.True(t, handled)
			assert.Equal(t, 0, l.SelectedIndex(), "down from last wraps to first")
		})
	}
}

func TestListCtrlNMovesDown(t *testing.T) {
	l := NewList(plainMention, nil)
	l.SetItems(testPeople())
	l.OnKeyDown(keyCtrlN)
	assert.Equal(t, 1, l.SelectedIndex())
}

func TestListSetItemsResetsSelection(t *testing.T) {
	l := NewList(plainMention, nil)
	people := testPeople()
	l.SetItems(people)
	for range 3 {
		l.OnKeyDown(keyDown)
	}
	require.Equal(t, 3, l.SelectedIndex())

	l.SetItems(people)
	assert.Equal(t, 3, l.SelectedIndex(), "identical slice keeps the highlight")

	l.SetItems(append([]Mention(nil), people...))
	assert.Equal(t, 0, l.SelectedIndex(), "equal contents in a new slice reset")

	l.OnKeyDown(keyDown)
	l.SetItems(people[:4])
	assert.Equal(t, 0, l.SelectedIndex(), "shorter view of the same array resets")
}

func TestListEmptyConsumesKeys(t *testing.T) {
	var got committed[Mention]
	l := NewList(plainMention, got.record)
	l.SetItems([]Mention{})

	for _, msg := range []tea.KeyMsg{keyUp, keyDown, keyEnter, keyTab} {
		handled, cmd := l.OnKeyDown(msg)
		assert.True(t, handled, msg.String())
		assert.Nil(t, cmd)
	}
	assert.Empty(t, got.items)
	assert.Equal(t, 0, l.SelectedIndex())
	assert.Contains(t, l.View(), DefaultEmptyMessage)

	handled, _ := l.OnKeyDown(keyRune)
	assert.False(t, handled)
}

func TestListCommitPaths(t *testing.T) {
	var got committed[Mention]
	l := NewList(plainMention, got.record)
	people := testPeople()
	l.SetItems(people)

	l.OnKeyDown(keyDown)
	handled, _ := l.OnKeyDown(keyEnter)
	require.True(t, handled)

	l.HighlightAt(4)
	assert.Equal(t, 4, l.SelectedIndex())
	l.SelectAt(6)
	l.SelectAt(99)
	l.HighlightAt(-1)

	assert.Equal(t, []Mention{people[1], people[6]}, got.items)
	assert.Equal(t, 6, l.SelectedIndex())
}

func TestListScrollsToKeepSelectionVisible(t *testing.T) {
	l := NewList(plainMention, nil, WithMaxVisible(4))
	people := testPeople()
	l.SetItems(people)

	for range 5 {
		l.OnKeyDown(keyDown)
	}
	assert.Equal(t, 5, l.SelectedIndex())
	assert.Equal(t, 2, l.Offset(), "scrolls by the minimum amount")
	view := l.View()
	assert.Contains(t, view, people[5].Name)
	assert.NotContains(t, view, people[1].Name)

	l.OnKeyDown(keyUp)
	assert.Equal(t, 2, l.Offset(), "moving inside the window does not scroll")

	l.OnKeyDown(keyUp)
	l.OnKeyDown(keyUp)
	l.OnKeyDown(keyUp)
	assert.Equal(t, 1, l.Offset())

	l.SetItems(testPeople())
	assert.Equal(t, 0, l.Offset())
}

func TestListHeightLimitClampsView(t *testing.T) {
	l := NewList(plainMention, nil, WithMaxVisible(8))
	l.SetItems(testPeople())

	natural := lipgloss.Height(l.NaturalView())
	assert.Equal(t, 8+2, natural)

	l.SetHeightLimit(5)
	assert.Equal(t, 5, lipgloss.Height(l.View()))
	assert.Equal(t, natural, lipgloss.Height(l.NaturalView()), "natural height ignores the clamp")

	for range 6 {
		l.OnKeyDown(keyDown)
	}
	assert.Contains(t, l.View(), testPeople()[6].Name)

	l.SetHeightLimit(2)
	assert.Empty(t, l.View())
}

func TestListTruncatesRows(t *testing.T) {
	l := NewList(plainMention, nil, WithWidth(12))
	l.SetItems([]Mention{{PersonID: "1", Name: "Maximilian Featherstonehaugh"}})

	for _, line := range strings.Split(l.View(), "\n") {
		assert.Equal(t, 12, lipgloss.Width(line))
	}
	assert.Contains(t, l.View(), "…")
}

func TestListHitTestUsesZones(t *testing.T) {
	z := zone.New()
	var got committed[Mention]
	l := NewList(plainMention, got.record, WithZones(z))
	l.SetItems(testPeople()[:3])

	z.Scan(l.View())
	require.Eventually(t, func() bool {
		info := z.Get(l.ZoneID(2))
		return info != nil && !info.IsZero()
	}, time.Second, 5*time.Millisecond)

	// Row i sits below the top border, one line per row.
	i, ok := l.HitTest(tea.MouseMsg{X: 4, Y: 3})
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = l.HitTest(tea.MouseMsg{X: 4, Y: 0})
	assert.False(t, ok, "border is not a row")
}
