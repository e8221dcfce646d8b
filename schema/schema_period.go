package schema

import (
	"fmt"
	"strings"
	"time"
)

// Lookback is a calendar offset subtracted from the reference timestamp.
// The zero value means there is no lower bound.
type Lookback struct {
	Years  int `json:"years,omitempty"`
	Months int `json:"months,omitempty"`
	Days   int `json:"days,omitempty"`
}

// None reports whether the lookback is unbounded.
func (l Lookback) None() bool {
	return l.Years == 0 && l.Months == 0 && l.Days == 0
}

// From returns the inclusive lower bound of the window ending at reference.
// Years and months move to the same day of the target month, clamped to its
// last day, so a year back from Feb 29 is Feb 28. Days are subtracted after.
func (l Lookback) From(reference time.Time) time.Time {
	y, m, d := reference.Date()
	target := time.Date(y-l.Years, m-time.Month(l.Months), 1, 0, 0, 0, 0, reference.Location())
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	hour, minute, sec := reference.Clock()
	bound := time.Date(target.Year(), target.Month(), d, hour, minute, sec, reference.Nanosecond(), reference.Location())
	return bound.AddDate(0, 0, -l.Days)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String renders the lookback in a compact form such as "30d" or "1y".
func (l Lookback) String() string {
	if l.None() {
		return "none"
	}
	var parts []string
	if l.Years != 0 {
		parts = append(parts, fmt.Sprintf("%dy", l.Years))
	}
	if l.Months != 0 {
		parts = append(parts, fmt.Sprintf("%dmo", l.Months))
	}
	if l.Days != 0 {
		parts = append(parts, fmt.Sprintf("%dd", l.Days))
	}
	return strings.Join(parts, "")
}

// PeriodPolicy is what a named period resolves to.
type PeriodPolicy struct {
	Name        string      `json:"name"`
	Lookback    Lookback    `json:"lookback"`
	Granularity Granularity `json:"granularity"`
}
