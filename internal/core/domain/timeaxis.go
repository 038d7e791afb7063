package domain

import (
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TimeAxis is the bounded time range spanned by a set of candidate dates.
type TimeAxis struct {
	Soonest time.Time `json:"soonest"`
	Latest  time.Time `json:"latest"`
}

// ComputeTimeAxis returns the earliest candidate and the latest candidate
// padded by one slot, so the final row of the grid stays renderable.
// Zero times are treated as unparsable and skipped.
func ComputeTimeAxis(dates []time.Time) (TimeAxis, error) {
	if len(dates) == 0 {
		return TimeAxis{}, InvalidInput("at least one date is required")
	}

	var soonest, latest time.Time
	valid := 0
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if valid == 0 || d.Before(soonest) {
			soonest = d
		}
		if valid == 0 || d.After(latest) {
			latest = d
		}
		valid++
	}
	if valid == 0 {
		return TimeAxis{}, InvalidInput("none of the %d dates is valid", len(dates))
	}

	return TimeAxis{Soonest: soonest, Latest: latest.Add(SlotDuration)}, nil
}

// ParseDates parses RFC 3339 timestamps or YYYY-MM-DD calendar dates.
func ParseDates(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, InvalidInput("at least one date is required")
	}

	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, err := parseDate(strings.TrimSpace(s))
		if err != nil {
			return nil, InvalidInput("date %q is not ISO 8601", s)
		}
		out = append(out, t)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

// CanonicalDates truncates every date to UTC midnight, drops duplicates and
// zero values, and sorts the result ascending.
func CanonicalDates(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		day := TruncateDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// TruncateDay returns the UTC calendar day containing t.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AxisKey identifies a date set independent of order and duplicates.
func AxisKey(dates []time.Time) string {
	uniq := make(map[int64]time.Time, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			uniq[d.UnixNano()] = d
		}
	}
	keys := make([]int64, 0, len(uniq))
	for k := range uniq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(uniq[k].UTC().Format(time.RFC3339Nano))
	}
	return b.String()
}
