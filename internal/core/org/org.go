// Package org models the hierarchical outline document: events grouped
// under date headings, which are grouped under year and ISO-week headings.
package org

import (
	"fmt"
	"time"
)

// DefaultEventLevel is the headline depth used for generated events.
const DefaultEventLevel = 4

// DefaultKeywords are the leading state keywords recognized when reading
// event headlines back from a document.
var DefaultKeywords = []string{"TODO", "DONE", "INPROGRESS"}

// Event is a single entry under a date heading.
type Event struct {
	Title   string
	Level   int      // headline depth (number of leading stars)
	Keyword string   // optional leading state keyword, e.g. "TODO"
	Tags    []string // rendered in order as :tag:tag:
	Body    string   // free text below the headline, verbatim
}

// DateNode holds all events for one calendar day. ExistingEvents were
// recovered from a prior document and are never reordered or rewritten;
// NewEvents were generated this run.
type DateNode struct {
	Date           time.Time
	ExistingEvents []Event
	NewEvents      []Event
}

// Year returns the 4-digit calendar year heading text.
func (n DateNode) Year() string {
	return fmt.Sprintf("%04d", n.Date.Year())
}

// Week returns the week heading text, calendar year plus ISO week number.
// The calendar year is used deliberately so that the label sorts with the
// file's year headings even when the ISO year differs around January 1.
func (n DateNode) Week() string {
	_, wk := n.Date.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", n.Date.Year(), wk)
}

// DayHeading returns the date heading text, e.g. "2025-01-01 Wed".
func (n DateNode) DayHeading() string {
	return n.Date.Format("2006-01-02 Mon")
}

// AllEvents returns existing events followed by new events.
func (n DateNode) AllEvents() []Event {
	out := make([]Event, 0, len(n.ExistingEvents)+len(n.NewEvents))
	out = append(out, n.ExistingEvents...)
	out = append(out, n.NewEvents...)
	return out
}

// DateKey normalizes a time to its calendar date at midnight, the identity
// used to enforce one DateNode per day.
func DateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
