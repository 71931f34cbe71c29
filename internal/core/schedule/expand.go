// Package schedule expands recurrence rules into dated occurrences within
// a bounded interval.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vonpupp/ord-plan/internal/core/daterange"
	"github.com/vonpupp/ord-plan/internal/core/org"
	"github.com/vonpupp/ord-plan/internal/core/rules"
)

// MaxOccurrencesPerRule caps expansion of a single rule. A degenerate
// rule/interval pairing hits the cap and is reported as a truncation, not
// a fatal error.
const MaxOccurrencesPerRule = 10000

// Occurrence is one concrete scheduled event together with the instant it
// was computed for. The instant is an explicit field so grouping never has
// to recover it from the event itself.
type Occurrence struct {
	Event org.Event
	At    time.Time
}

// Options adjusts how rule metadata maps onto generated events.
type Options struct {
	// DefaultKeyword is applied when a rule has no keyword of its own.
	DefaultKeyword string
	// EventLevel is the headline level for generated events; zero means
	// org.DefaultEventLevel.
	EventLevel int
	// MaxPerRule overrides MaxOccurrencesPerRule when positive.
	MaxPerRule int
}

// Expansion is the result of expanding one or more rules.
type Expansion struct {
	Occurrences []Occurrence
	// Truncated lists titles of rules that hit the occurrence cap.
	Truncated []string
}

// Expand generates every instant within [iv.Start, iv.End] at which the
// rule's recurrence expression fires, in ascending order. Day-of-month and
// day-of-week follow standard cron semantics: when both fields are
// restricted an instant matches if either matches; when one is a wildcard
// both must match.
func Expand(rule rules.Rule, iv daterange.Interval, opts Options) (Expansion, error) {
	sched, err := cron.ParseStandard(rule.Cron)
	if err != nil {
		return Expansion{}, fmt.Errorf("rule %q: invalid cron expression %q: %w", rule.Title, rule.Cron, err)
	}

	max := opts.MaxPerRule
	if max <= 0 {
		max = MaxOccurrencesPerRule
	}

	var out Expansion

	// Next returns instants strictly after its argument, so back up one
	// second to let an occurrence land exactly on iv.Start.
	t := iv.Start.Add(-time.Second)
	for {
		t = sched.Next(t)
		if t.IsZero() || t.After(iv.End) {
			break
		}
		out.Occurrences = append(out.Occurrences, Occurrence{Event: eventFor(rule, opts), At: t})
		if len(out.Occurrences) >= max {
			out.Truncated = append(out.Truncated, rule.Title)
			break
		}
	}

	return out, nil
}

// ExpandAll expands every rule over the interval and concatenates the
// results ordered by instant, then by rule position for equal instants.
func ExpandAll(rs []rules.Rule, iv daterange.Interval, opts Options) (Expansion, error) {
	var all Expansion
	for _, r := range rs {
		exp, err := Expand(r, iv, opts)
		if err != nil {
			return Expansion{}, err
		}
		all.Occurrences = append(all.Occurrences, exp.Occurrences...)
		all.Truncated = append(all.Truncated, exp.Truncated...)
	}

	sort.SliceStable(all.Occurrences, func(i, j int) bool {
		return all.Occurrences[i].At.Before(all.Occurrences[j].At)
	})
	return all, nil
}

func eventFor(rule rules.Rule, opts Options) org.Event {
	kw := rule.Keyword
	if kw == "" {
		kw = opts.DefaultKeyword
	}
	level := opts.EventLevel
	if level <= 0 {
		level = org.DefaultEventLevel
	}
	return org.Event{
		Title:   rule.Title,
		Level:   level,
		Keyword: kw,
		Tags:    rule.Tags,
		Body:    rule.Body,
	}
}
