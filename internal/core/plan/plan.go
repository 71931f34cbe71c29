// Package plan organizes generated occurrences by calendar date and merges
// them with the events recovered from a previously rendered document.
package plan

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vonpupp/ord-plan/internal/core/daterange"
	"github.com/vonpupp/ord-plan/internal/core/org"
	"github.com/vonpupp/ord-plan/internal/core/rules"
	"github.com/vonpupp/ord-plan/internal/core/schedule"
)

// Group buckets occurrences by calendar date, one node per distinct date,
// sorted ascending. All events land in NewEvents. Pure function.
func Group(occs []schedule.Occurrence) []org.DateNode {
	byDate := map[time.Time]*org.DateNode{}
	var order []time.Time

	for _, occ := range occs {
		key := org.DateKey(occ.At)
		node, ok := byDate[key]
		if !ok {
			node = &org.DateNode{Date: key}
			byDate[key] = node
			order = append(order, key)
		}
		node.NewEvents = append(node.NewEvents, occ.Event)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	nodes := make([]org.DateNode, 0, len(order))
	for _, d := range order {
		nodes = append(nodes, *byDate[d])
	}
	return nodes
}

// Merge combines freshly generated nodes with nodes recovered from the
// target document into one collection with a single node per date,
// ascending. Existing events pass through exactly as read: never mutated,
// never reordered, never deduplicated against the new set, since the
// reader cannot tell tool-generated entries from human-written ones and
// guessing would risk discarding deliberate duplicates. New events are
// appended after them. Merge is a one-shot combination: re-running the
// same rules over an interval whose output is already in the file will
// duplicate those events.
func Merge(newNodes, existingNodes []org.DateNode) []org.DateNode {
	byDate := map[time.Time]org.DateNode{}
	var order []time.Time

	for _, n := range existingNodes {
		key := org.DateKey(n.Date)
		if _, ok := byDate[key]; !ok {
			order = append(order, key)
		}
		byDate[key] = n
	}

	for _, n := range newNodes {
		key := org.DateKey(n.Date)
		merged, ok := byDate[key]
		if !ok {
			order = append(order, key)
			merged = org.DateNode{Date: key}
		}
		merged.NewEvents = append(merged.NewEvents, n.NewEvents...)
		byDate[key] = merged
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	out := make([]org.DateNode, 0, len(order))
	for _, d := range order {
		out = append(out, byDate[d])
	}
	return out
}

// Summary is the per-run event accounting reported to the caller.
type Summary struct {
	Total    int
	New      int
	Existing int
}

// Summarize counts events across the merged collection.
func Summarize(nodes []org.DateNode) Summary {
	var s Summary
	for _, n := range nodes {
		s.Existing += len(n.ExistingEvents)
		s.New += len(n.NewEvents)
	}
	s.Total = s.Existing + s.New
	return s
}

// Request carries everything one generation run needs. Rules must already
// be validated; Existing comes from reading the target document.
type Request struct {
	Rules          []rules.Rule
	Interval       daterange.Interval
	Existing       []org.DateNode
	DefaultKeyword string
	EventLevel     int
	MaxPerRule     int
}

// Result is the merged collection plus run accounting.
type Result struct {
	Nodes   []org.DateNode
	Summary Summary
	// Truncated lists rules that hit the per-rule occurrence cap.
	Truncated []string
}

// Generate runs the full expand-group-merge sequence for one invocation.
func Generate(req Request) (Result, error) {
	exp, err := schedule.ExpandAll(req.Rules, req.Interval, schedule.Options{
		DefaultKeyword: req.DefaultKeyword,
		EventLevel:     req.EventLevel,
		MaxPerRule:     req.MaxPerRule,
	})
	if err != nil {
		return Result{}, err
	}

	for _, title := range exp.Truncated {
		log.Warn().Str("rule", title).Msg("occurrence cap reached, output truncated")
	}

	nodes := Merge(Group(exp.Occurrences), req.Existing)

	return Result{
		Nodes:     nodes,
		Summary:   Summarize(nodes),
		Truncated: exp.Truncated,
	}, nil
}
