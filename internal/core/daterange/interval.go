// Package daterange defines the closed datetime window events are
// generated within, plus the advisory warnings attached to unusual ranges.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

// ErrStartAfterEnd reports an inverted interval. Always fatal.
var ErrStartAfterEnd = errors.New("interval start is after end")

// Interval is a closed datetime range [Start, End]. Warnings are advisory
// strings describing ranges that reach unusually far into the past or
// future; they never block construction.
type Interval struct {
	Start    time.Time
	End      time.Time
	Warnings []string
}

// New builds an interval relative to the current time.
func New(start, end time.Time) (Interval, error) {
	return NewAt(start, end, time.Now())
}

// NewAt builds an interval, evaluating past/future warnings against the
// supplied reference time.
func NewAt(start, end, now time.Time) (Interval, error) {
	if start.After(end) {
		return Interval{}, fmt.Errorf("%w: %s > %s",
			ErrStartAfterEnd, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	iv := Interval{Start: start, End: end}
	iv.Warnings = append(iv.Warnings, pastWarnings(start, now)...)
	iv.Warnings = append(iv.Warnings, futureWarnings(end, now)...)
	return iv, nil
}

// Days returns the number of calendar days covered, inclusive.
func (iv Interval) Days() int {
	return int(dayStart(iv.End).Sub(dayStart(iv.Start)).Hours()/24) + 1
}

// pastWarnings compares the start against Monday of the current week:
// generating inside the running week is routine and stays silent.
func pastWarnings(start, now time.Time) []string {
	ws := weekStart(now)
	if !start.Before(ws) {
		return nil
	}

	days := int(ws.Sub(start).Hours() / 24)
	switch {
	case days > 365:
		return []string{fmt.Sprintf("generating events more than 1 year in the past (%d days ago)", days)}
	case days > 90:
		return []string{fmt.Sprintf("generating events more than 3 months in the past (%d days ago)", days)}
	case days > 30:
		return []string{fmt.Sprintf("generating events more than 1 month in the past (%d days ago)", days)}
	case days > 7:
		return []string{fmt.Sprintf("generating events more than 1 week in the past (%d days ago)", days)}
	default:
		return []string{fmt.Sprintf("generating events for past dates (%d days ago)", days)}
	}
}

func futureWarnings(end, now time.Time) []string {
	days := int(end.Sub(now).Hours() / 24)
	switch {
	case days > 2*365:
		return []string{fmt.Sprintf("generating events more than 2 years in the future (%d days from now)", days)}
	case days > 365:
		return []string{fmt.Sprintf("generating events beyond 1 year in the future (%d days from now)", days)}
	default:
		return nil
	}
}

// weekStart returns midnight on Monday of t's week.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
