package period

import (
	"time"

	"github.com/huangsam/leadpulse/schema"
)

// Label layouts per granularity. Day and week share the ISO date layout.
const (
	dayLayout   = "2006-01-02"
	monthLayout = "Jan-2006"
	yearLayout  = "2006"
)

// BucketKey returns the calendar bucket that ts falls into.
//
// Weeks run Monday through Sunday and are labeled by their Sunday, so a week
// that is still in progress keeps the same label for its whole span. Buckets
// are cut in UTC so instants carrying different offsets stay in time order.
func BucketKey(ts time.Time, g schema.Granularity) schema.BucketKey {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case schema.Week:
		// Monday = 0 ... Sunday = 6
		offset := 6 - (int(day.Weekday())+6)%7
		sunday := day.AddDate(0, 0, offset)
		return schema.BucketKey{At: sunday, Label: sunday.Format(dayLayout)}
	case schema.Month:
		first := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
		return schema.BucketKey{At: first, Label: first.Format(monthLayout)}
	case schema.Year:
		first := time.Date(ts.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return schema.BucketKey{At: first, Label: first.Format(yearLayout)}
	default:
		return schema.BucketKey{At: day, Label: day.Format(dayLayout)}
	}
}

// NextBucket returns the bucket right after k.
func NextBucket(k schema.BucketKey, g schema.Granularity) schema.BucketKey {
	switch g {
	case schema.Week:
		return BucketKey(k.At.AddDate(0, 0, 7), g)
	case schema.Month:
		return BucketKey(k.At.AddDate(0, 1, 0), g)
	case schema.Year:
		return BucketKey(k.At.AddDate(1, 0, 0), g)
	default:
		return BucketKey(k.At.AddDate(0, 0, 1), g)
	}
}

// ParseBucketLabel recovers the ordering anchor of a label produced by BucketKey.
// Labels that no granularity produces report false.
func ParseBucketLabel(label string) (time.Time, bool) {
	for _, layout := range []string{dayLayout, monthLayout, yearLayout} {
		if t, err := time.Parse(layout, label); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LessLabel orders two bucket labels chronologically. Unparsable labels sort
// after parsable ones and then lexically.
func LessLabel(a, b string) bool {
	ta, okA := ParseBucketLabel(a)
	tb, okB := ParseBucketLabel(b)
	switch {
	case okA && okB:
		if ta.Equal(tb) {
			return a < b
		}
		return ta.Before(tb)
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}
