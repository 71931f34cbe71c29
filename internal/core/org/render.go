package org

import (
	"sort"
	"strings"
)

// Render serializes date nodes into outline text, deterministically
// ordered year then week then date, with existing events before new ones
// under each date. An empty collection renders to an empty string.
func Render(nodes []DateNode) string {
	if len(nodes) == 0 {
		return ""
	}

	type weekKey struct {
		year string
		week string
	}

	grouped := map[weekKey][]DateNode{}
	for _, n := range nodes {
		k := weekKey{year: n.Year(), week: n.Week()}
		grouped[k] = append(grouped[k], n)
	}

	keys := make([]weekKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	// Lexicographic order is chronological: both labels are zero-padded.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	var lines []string
	currentYear := ""

	for _, k := range keys {
		week := grouped[k]
		sort.Slice(week, func(i, j int) bool { return week[i].Date.Before(week[j].Date) })

		if k.year != currentYear {
			if currentYear != "" {
				lines = append(lines, "")
			}
			lines = append(lines, "* "+k.year)
			currentYear = k.year
		}

		lines = append(lines, "** "+k.week)

		for _, node := range week {
			lines = append(lines, "*** "+node.DayHeading())
			for _, ev := range node.AllEvents() {
				lines = append(lines, renderEvent(ev))
			}
		}
	}

	return strings.Join(lines, "\n")
}

func renderEvent(ev Event) string {
	level := ev.Level
	if level < 1 {
		level = DefaultEventLevel
	}

	parts := make([]string, 0, 3)
	if ev.Keyword != "" {
		parts = append(parts, ev.Keyword)
	}
	parts = append(parts, ev.Title)
	if len(ev.Tags) > 0 {
		parts = append(parts, ":"+strings.Join(ev.Tags, ":")+":")
	}

	line := strings.Repeat("*", level) + " " + strings.Join(parts, " ")
	if ev.Body != "" {
		line += "\n" + strings.TrimRight(ev.Body, " \t\n")
	}
	return line
}
