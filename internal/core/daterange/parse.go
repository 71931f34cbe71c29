package daterange

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// ParseDate resolves a single date string relative to now. Supported
// forms: absolute YYYY-MM-DD, the keywords today/tomorrow/yesterday,
// "next <weekday|week|month|year>", and "+N days" offsets.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	switch lower := strings.ToLower(s); {
	case lower == "today":
		return now, nil
	case lower == "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case lower == "yesterday":
		return now.AddDate(0, 0, -1), nil
	case strings.HasPrefix(lower, "next "):
		return parseNext(strings.TrimSpace(strings.TrimPrefix(lower, "next ")), now)
	case strings.HasPrefix(s, "+"):
		return parseOffset(lower, now)
	}

	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: expected YYYY-MM-DD, today, tomorrow, yesterday, next <weekday|week|month|year>, or +N days", s)
	}
	return d, nil
}

func parseNext(unit string, now time.Time) (time.Time, error) {
	switch unit {
	case "week":
		// Monday of the following week.
		return weekStart(now).AddDate(0, 0, 7), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0), nil
	case "year":
		return time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}

	wd, ok := weekdayNames[unit]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown relative date %q: expected a weekday, week, month, or year", "next "+unit)
	}

	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days), nil
}

func parseOffset(s string, now time.Time) (time.Time, error) {
	fields := strings.Fields(strings.TrimPrefix(s, "+"))
	if len(fields) != 2 || (fields[1] != "days" && fields[1] != "day") {
		return time.Time{}, fmt.Errorf("invalid offset %q: use '+N days'", s)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid offset %q: use '+N days' with a non-negative N", s)
	}
	return now.AddDate(0, 0, n), nil
}

// Resolve turns the optional --from/--to strings into a validated
// interval. Both empty defaults to the current week, Monday through
// Sunday. A lone --from produces a single-day interval. The start is
// clamped to the beginning of its day and the end to the last instant of
// its day before warnings are evaluated.
func Resolve(fromStr, toStr string, now time.Time) (Interval, error) {
	var from, to time.Time

	switch {
	case fromStr == "" && toStr == "":
		from = weekStart(now)
		to = from.AddDate(0, 0, 6)
	default:
		var err error
		if fromStr != "" {
			if from, err = ParseDate(fromStr, now); err != nil {
				return Interval{}, err
			}
		} else {
			from = now
		}
		if toStr != "" {
			if to, err = ParseDate(toStr, now); err != nil {
				return Interval{}, err
			}
		} else {
			to = from
		}
	}

	return NewAt(dayStart(from), dayEnd(to), now)
}
