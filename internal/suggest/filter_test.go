package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatchesLabelIgnoringCase(t *testing.T) {
	people := testPeople()
	queries := []string{"", "jo", "JO", "a", "zz", "ann", " "}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got := Filter(people, q, 0, MentionKeys)
			for _, m := range got {
				assert.Contains(t, strings.ToLower(m.Name), strings.ToLower(q))
			}
			want := 0
			for _, m := range people {
				if strings.Contains(strings.ToLower(m.Name), strings.ToLower(q)) {
					want++
				}
			}
			assert.Len(t, got, want)
		})
	}
}

func TestFilterEmptyQueryReturnsCappedSequence(t *testing.T) {
	people := testPeople()
	got := Filter(people, "", 8, MentionKeys)
	require.Len(t, got, 8)
	assert.Equal(t, people[:8], got)

	assert.Len(t, Filter(people, "", 0, MentionKeys), len(people))
	assert.Len(t, Filter(people, "", -1, MentionKeys), len(people))
}

func TestFilterKeepsOrderAndNeverAliases(t *testing.T) {
	people := testPeople()
	got := Filter(people, "", 0, MentionKeys)
	require.NotEmpty(t, got)
	assert.NotSame(t, &people[0], &got[0])

	got = Filter(people, "jo", 0, MentionKeys)
	assert.Equal(t, []string{"John Carter", "Joanna Mills"}, labels(got))
}

func TestFilterCommandsMatchMachineName(t *testing.T) {
	cmds := []Command{
		{Name: "h1", Title: "Heading 1"},
		{Name: "ul", Title: "Bullet list"},
		{Name: "todo", Title: "To-do list"},
	}

	assert.Equal(t, []string{"Bullet list"}, labels(Filter(cmds, "UL", 0, CommandKeys)))
	assert.Equal(t, []string{"Bullet list", "To-do list"}, labels(Filter(cmds, "list", 0, CommandKeys)))
	assert.Equal(t, []string{"Heading 1"}, labels(Filter(cmds, "h1", 0, CommandKeys)))
	assert.Empty(t, Filter(cmds, "table", 0, CommandKeys))
}

func labels[T Candidate](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label())
	}
	return out
}
