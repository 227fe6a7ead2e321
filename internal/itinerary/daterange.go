package itinerary

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var monthLabels = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// DateRangeLabel renders the span of days as "3 - 10 Mar", "28 Mar - 2 Abr"
// or "5 Mar". days must already be sorted.
func DateRangeLabel(days []Day) string {
	if len(days) == 0 {
		return ""
	}
	first, err := time.Parse(dateLayout, days[0].Date)
	if err != nil {
		return ""
	}
	last, err := time.Parse(dateLayout, days[len(days)-1].Date)
	if err != nil {
		return ""
	}

	switch {
	case first.Equal(last):
		return fmt.Sprintf("%d %s", first.Day(), monthLabel(first))
	case first.Year() == last.Year() && first.Month() == last.Month():
		return fmt.Sprintf("%d - %d %s", first.Day(), last.Day(), monthLabel(last))
	default:
		return fmt.Sprintf("%d %s - %d %s", first.Day(), monthLabel(first), last.Day(), monthLabel(last))
	}
}

func monthLabel(t time.Time) string {
	return monthLabels[t.Month()-1]
}

// ParseTimestamp accepts the zone-less minute and second layouts produced by
// the assistant as well as RFC 3339.
func ParseTimestamp(ts string) (time.Time, error) {
	for _, layout := range []string{LocalLayout, "2006-01-02T15:04:05", time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", ts)
}
