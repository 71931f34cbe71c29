package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/robfig/cron/v3"
)

const (
	maxTags      = 10
	maxTagLen    = 50
	maxBodyLen   = 4096
	maxTitleLen  = 200
	numCronField = 5
)

// cronFields defines the 5-field grammar in order, with legal numeric
// ranges. Day-of-week uses 0-6 with Sunday as 0.
var cronFields = []struct {
	name     string
	min, max int
}{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

// Validate checks every rule and reports all problems at once rather than
// failing on the first, so the caller gets a complete picture in one pass.
// Nothing is generated for any rule until the whole set passes.
func Validate(rs []Rule) error {
	var errs criterio.FieldErrorsBuilder

	for i, r := range rs {
		field := func(name string) string {
			return fmt.Sprintf("events[%d].%s", i, name)
		}

		title := strings.TrimSpace(r.Title)
		if title == "" {
			errs = errs.Append(field("title"), fmt.Errorf("title is required"))
		} else if len(title) > maxTitleLen {
			errs = errs.Append(field("title"), fmt.Errorf("title exceeds %d characters", maxTitleLen))
		}

		if err := ValidateCron(r.Cron); err != nil {
			errs = errs.Append(field("cron"), err)
		}

		if len(r.Tags) > maxTags {
			errs = errs.Append(field("tags"), fmt.Errorf("at most %d tags allowed, got %d", maxTags, len(r.Tags)))
		}
		for j, tag := range r.Tags {
			switch {
			case tag == "":
				errs = errs.Append(fmt.Sprintf("%s[%d]", field("tags"), j), fmt.Errorf("tag is empty"))
			case strings.ContainsAny(tag, " \t:"):
				errs = errs.Append(fmt.Sprintf("%s[%d]", field("tags"), j), fmt.Errorf("tag %q must not contain whitespace or colons", tag))
			case len(tag) > maxTagLen:
				errs = errs.Append(fmt.Sprintf("%s[%d]", field("tags"), j), fmt.Errorf("tag exceeds %d characters", maxTagLen))
			}
		}

		if len(r.Body) > maxBodyLen {
			errs = errs.Append(field("description"), fmt.Errorf("description exceeds %d characters", maxBodyLen))
		}
	}

	return errs.ToError()
}

// ValidateCron checks a 5-field recurrence expression: field count,
// per-field numeric ranges (naming the offending field), and finally that
// the expansion library accepts it, which covers name aliases like MON or
// JAN that the numeric checks pass over.
func ValidateCron(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("cron expression is required")
	}

	fields := strings.Fields(expr)
	if len(fields) != numCronField {
		return fmt.Errorf("expected 5 fields (minute hour day-of-month month day-of-week), got %d in %q", len(fields), expr)
	}

	for i, f := range fields {
		spec := cronFields[i]
		if err := validateCronField(f, spec.min, spec.max); err != nil {
			return fmt.Errorf("%s field %q: %w", spec.name, f, err)
		}
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// validateCronField checks one field against the grammar: *, integer,
// range a-b, comma lists, and step suffix /n on any of those. Name
// aliases (JAN, MON) are left for the expansion library to judge.
func validateCronField(field string, min, max int) error {
	for _, part := range strings.Split(field, ",") {
		if part == "" {
			return fmt.Errorf("empty list entry")
		}

		if base, step, found := strings.Cut(part, "/"); found {
			n, err := strconv.Atoi(step)
			if err != nil || n <= 0 {
				return fmt.Errorf("step %q must be a positive integer", step)
			}
			part = base
		}

		if part == "*" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		bounds := []string{lo}
		if isRange {
			bounds = append(bounds, hi)
		}

		alpha := false
		vals := make([]int, 0, 2)
		for _, b := range bounds {
			v, err := strconv.Atoi(b)
			if err != nil {
				// Not numeric: a name alias, judged by the parser.
				alpha = true
				break
			}
			vals = append(vals, v)
		}
		if alpha {
			continue
		}

		for _, v := range vals {
			if v < min || v > max {
				return fmt.Errorf("value %d out of range %d-%d", v, min, max)
			}
		}
		if isRange && len(vals) == 2 && vals[0] > vals[1] {
			return fmt.Errorf("range %s is inverted", part)
		}
	}
	return nil
}
