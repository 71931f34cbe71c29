package org_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vonpupp/ord-plan/internal/core/org"
)

func TestReadFile_Missing(t *testing.T) {
	nodes, err := org.ReadFile(filepath.Join(t.TempDir(), "nope.org"), nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestReadFile_RoundTripFromDisk(t *testing.T) {
	content := "* 2025\n** 2025-W01\n*** 2025-01-01 Wed\n**** TODO Morning Exercise :health:exercise:\nStretch first.\n"
	path := filepath.Join(t.TempDir(), "plan.org")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	nodes, err := org.ReadFile(path, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	node := nodes[0]
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), node.Date)
	require.Len(t, node.ExistingEvents, 1)
	assert.Empty(t, node.NewEvents)

	ev := node.ExistingEvents[0]
	assert.Equal(t, "Morning Exercise", ev.Title)
	assert.Equal(t, "TODO", ev.Keyword)
	assert.Equal(t, []string{"health", "exercise"}, ev.Tags)
	assert.Equal(t, "Stretch first.", ev.Body)
	assert.Equal(t, 4, ev.Level)
}

func TestParse_EventHeadlines(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want org.Event
	}{
		{
			name: "keyword and tags",
			doc:  "*** 2025-01-06 Mon\n**** TODO Standup :team:sync:",
			want: org.Event{Title: "Standup", Level: 4, Keyword: "TODO", Tags: []string{"team", "sync"}},
		},
		{
			name: "no keyword",
			doc:  "*** 2025-01-06 Mon\n**** Dentist appointment",
			want: org.Event{Title: "Dentist appointment", Level: 4},
		},
		{
			name: "unrecognized keyword stays in title",
			doc:  "*** 2025-01-06 Mon\n**** URGENT Call back",
			want: org.Event{Title: "URGENT Call back", Level: 4},
		},
		{
			name: "multi line body",
			doc:  "*** 2025-01-06 Mon\n**** DONE Review\nline one\nline two",
			want: org.Event{Title: "Review", Level: 4, Keyword: "DONE", Body: "line one\nline two"},
		},
		{
			name: "deeper heading preserved at its level",
			doc:  "*** 2025-01-06 Mon\n***** Notes from standup",
			want: org.Event{Title: "Notes from standup", Level: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := org.Parse(tt.doc, nil)
			require.Len(t, nodes, 1)
			require.Len(t, nodes[0].ExistingEvents, 1)
			assert.Equal(t, tt.want, nodes[0].ExistingEvents[0])
		})
	}
}

func TestParse_SkipsNonDateHeadings(t *testing.T) {
	doc := `* Notes
** Random section
*** Not a date
* 2025
** 2025-W02
*** 2025-01-06 Mon
**** TODO Standup
*** 2025-13-45 not a real date
**** TODO Lost Event
`
	nodes := org.Parse(doc, nil)
	require.Len(t, nodes, 1)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local), nodes[0].Date)
	require.Len(t, nodes[0].ExistingEvents, 1)
	assert.Equal(t, "Standup", nodes[0].ExistingEvents[0].Title)
}

func TestParse_DuplicateDatesCollapse(t *testing.T) {
	doc := `*** 2025-01-06 Mon
**** First
*** 2025-01-07 Tue
**** Other
*** 2025-01-06 Mon
**** Second
`
	nodes := org.Parse(doc, nil)
	require.Len(t, nodes, 2)

	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local), nodes[0].Date)
	require.Len(t, nodes[0].ExistingEvents, 2)
	assert.Equal(t, "First", nodes[0].ExistingEvents[0].Title)
	assert.Equal(t, "Second", nodes[0].ExistingEvents[1].Title)
}

func TestParse_SortedByDate(t *testing.T) {
	doc := `*** 2025-02-10 Mon
**** Later
*** 2025-01-06 Mon
**** Earlier
`
	nodes := org.Parse(doc, nil)
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].Date.Before(nodes[1].Date))
}

func TestParse_CustomKeywords(t *testing.T) {
	doc := "*** 2025-01-06 Mon\n**** WAIT Slow thing"

	nodes := org.Parse(doc, []string{"WAIT"})
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].ExistingEvents, 1)
	assert.Equal(t, "WAIT", nodes[0].ExistingEvents[0].Keyword)
	assert.Equal(t, "Slow thing", nodes[0].ExistingEvents[0].Title)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, org.Parse("", nil))
	assert.Empty(t, org.Parse("just some text\nno headings", nil))
}
