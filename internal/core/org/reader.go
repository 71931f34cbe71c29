package org

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	headingRE     = regexp.MustCompile(`^(\*+)\s+(.*)$`)
	dateHeadingRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\b`)
	tagTrailerRE  = regexp.MustCompile(`\s+(:(?:[^\s:]+:)+)$`)
)

// ReadFile parses a previously rendered outline document into date nodes.
// All recovered events are placed in ExistingEvents. A missing file is not
// an error: there is nothing to preserve yet, so an empty collection is
// returned. keywords is the recognized set of leading state keywords; nil
// falls back to DefaultKeywords.
func ReadFile(path string, keywords []string) ([]DateNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read outline file: %w", err)
	}
	return Parse(string(data), keywords), nil
}

// Parse scans outline content for date headings and the event headlines
// beneath them. A heading is a date node when its text starts with a
// YYYY-MM-DD token that parses as a real calendar date; anything else is
// skipped so unrelated headline content can coexist in the same file.
// Every deeper heading inside a date node is recovered as an event at its
// recorded level, which keeps hand-written sub-structure intact on rewrite.
// Malformed individual nodes are dropped, never fatal.
func Parse(content string, keywords []string) []DateNode {
	if keywords == nil {
		keywords = DefaultKeywords
	}

	byDate := map[time.Time]*DateNode{}
	var order []time.Time

	var (
		current   *DateNode // date node being filled, nil outside one
		dateDepth int
		event     *Event // event whose body lines are being collected
		body      []string
	)

	flushEvent := func() {
		if event == nil {
			return
		}
		event.Body = strings.TrimRight(strings.Join(body, "\n"), " \t\n")
		current.ExistingEvents = append(current.ExistingEvents, *event)
		event = nil
		body = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		m := headingRE.FindStringSubmatch(line)
		if m == nil {
			// Plain text line: body of the open event, otherwise noise.
			if event != nil {
				body = append(body, line)
			}
			continue
		}

		depth := len(m[1])
		text := strings.TrimSpace(m[2])

		if current != nil && depth > dateDepth {
			flushEvent()
			ev, ok := parseEventHeading(text, depth, keywords)
			if !ok {
				log.Debug().Str("heading", text).Msg("skipping unparsable event headline")
				continue
			}
			event = &ev
			continue
		}

		// Heading at or above the date depth closes the open date node.
		flushEvent()
		current = nil

		date, ok := parseDateHeading(text)
		if !ok {
			continue
		}

		if node, seen := byDate[date]; seen {
			// Same date appearing twice collapses into one node.
			current = node
		} else {
			node := &DateNode{Date: date}
			byDate[date] = node
			order = append(order, date)
			current = node
		}
		dateDepth = depth
	}
	flushEvent()

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	nodes := make([]DateNode, 0, len(order))
	for _, d := range order {
		nodes = append(nodes, *byDate[d])
	}
	return nodes
}

// parseDateHeading extracts a calendar date from heading text. Headings
// that start with a date-shaped token which is not a real date (e.g.
// 2025-13-45) are treated as not-a-date rather than an error.
func parseDateHeading(text string) (time.Time, bool) {
	m := dateHeadingRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// parseEventHeading splits heading text into keyword, title, and tag
// trailer. The keyword is stripped only when the first token matches the
// recognized set, so titles that merely start with an uppercase word
// survive untouched.
func parseEventHeading(text string, level int, keywords []string) (Event, bool) {
	ev := Event{Level: level}

	if m := tagTrailerRE.FindStringSubmatch(text); m != nil {
		trailer := strings.Trim(m[1], ":")
		ev.Tags = strings.Split(trailer, ":")
		text = strings.TrimSpace(strings.TrimSuffix(text, m[0]))
	}

	first, rest, found := strings.Cut(text, " ")
	if found {
		for _, kw := range keywords {
			if first == kw {
				ev.Keyword = kw
				text = strings.TrimSpace(rest)
				break
			}
		}
	}

	ev.Title = strings.TrimSpace(text)
	if ev.Title == "" {
		return Event{}, false
	}
	return ev, true
}
