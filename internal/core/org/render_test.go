package org_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vonpupp/ord-plan/internal/core/org"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", org.Render(nil))
	assert.Equal(t, "", org.Render([]org.DateNode{}))
}

func TestRender_SingleEvent(t *testing.T) {
	nodes := []org.DateNode{
		{
			Date: date(2025, time.June, 2),
			NewEvents: []org.Event{
				{Title: "Weekly Review", Level: 4, Keyword: "TODO", Tags: []string{"review"}},
			},
		},
	}

	g := goldie.New(t)
	g.Assert(t, "single_event", []byte(org.Render(nodes)))
}

func TestRender_MultiYear(t *testing.T) {
	nodes := []org.DateNode{
		{
			Date: date(2025, time.January, 2),
			ExistingEvents: []org.Event{
				{Title: "Existing Task", Level: 4, Keyword: "DONE", Tags: []string{"work"}, Body: "Carried over notes."},
			},
			NewEvents: []org.Event{
				{Title: "New Task", Level: 4, Keyword: "TODO"},
			},
		},
		{
			Date: date(2025, time.March, 10),
			NewEvents: []org.Event{
				{Title: "Standup", Level: 4, Keyword: "TODO", Tags: []string{"team", "sync"}},
			},
		},
		{
			Date: date(2026, time.January, 5),
			NewEvents: []org.Event{
				{Title: "Planning", Level: 4, Keyword: "TODO"},
			},
		},
	}

	g := goldie.New(t)
	g.Assert(t, "multi_year", []byte(org.Render(nodes)))
}

func TestRender_ExistingBeforeNew(t *testing.T) {
	nodes := []org.DateNode{
		{
			Date:           date(2025, time.January, 1),
			ExistingEvents: []org.Event{{Title: "Existing Task", Level: 4}},
			NewEvents:      []org.Event{{Title: "New Task", Level: 4}},
		},
	}

	out := org.Render(nodes)
	existingAt := strings.Index(out, "Existing Task")
	newAt := strings.Index(out, "New Task")
	require.GreaterOrEqual(t, existingAt, 0)
	require.GreaterOrEqual(t, newAt, 0)
	assert.Less(t, existingAt, newAt)
}

func TestRender_InputOrderIrrelevant(t *testing.T) {
	a := org.DateNode{Date: date(2025, time.January, 6), NewEvents: []org.Event{{Title: "A", Level: 4}}}
	b := org.DateNode{Date: date(2025, time.February, 3), NewEvents: []org.Event{{Title: "B", Level: 4}}}

	assert.Equal(t,
		org.Render([]org.DateNode{a, b}),
		org.Render([]org.DateNode{b, a}),
	)
}

func TestWeek_CalendarYearLabel(t *testing.T) {
	// 2024-12-30 falls in ISO week 1 of 2025; the label keeps the
	// calendar year so it sorts under the 2024 year heading.
	n := org.DateNode{Date: date(2024, time.December, 30)}
	assert.Equal(t, "2024-W01", n.Week())
	assert.Equal(t, "2024", n.Year())
	assert.Equal(t, "2024-12-30 Mon", n.DayHeading())
}

func TestRoundTrip(t *testing.T) {
	nodes := []org.DateNode{
		{
			Date: date(2025, time.January, 6),
			NewEvents: []org.Event{
				{Title: "Standup", Level: 4, Keyword: "TODO", Tags: []string{"team"}},
				{Title: "Journal", Level: 4, Keyword: "TODO", Body: "Three pages."},
			},
		},
		{
			Date:      date(2025, time.January, 8),
			NewEvents: []org.Event{{Title: "Gym", Level: 4, Keyword: "DONE", Tags: []string{"health", "exercise"}}},
		},
	}

	recovered := org.Parse(org.Render(nodes), nil)
	require.Len(t, recovered, len(nodes))

	for i, want := range nodes {
		got := recovered[i]
		assert.True(t, want.Date.Equal(got.Date))
		assert.Empty(t, got.NewEvents)
		require.Len(t, got.ExistingEvents, len(want.NewEvents))
		for j, ev := range want.NewEvents {
			assert.Equal(t, ev, got.ExistingEvents[j])
		}
	}
}

// Rendering a parsed document again must reproduce it byte for byte;
// this is what keeps repeated runs from corrupting the target file.
func TestRender_Stable(t *testing.T) {
	nodes := []org.DateNode{
		{
			Date: date(2025, time.January, 2),
			NewEvents: []org.Event{
				{Title: "Existing Task", Level: 4, Keyword: "TODO", Tags: []string{"work"}, Body: "Notes."},
			},
		},
		{
			Date:      date(2025, time.March, 10),
			NewEvents: []org.Event{{Title: "Standup", Level: 4, Keyword: "TODO"}},
		},
	}

	first := org.Render(nodes)
	second := org.Render(org.Parse(first, nil))
	assert.Equal(t, first, second)
}
