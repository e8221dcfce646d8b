package period

import (
	"testing"

	"github.com/huangsam/leadpulse/schema"
)

// FuzzParseTimestamp fuzzes ParseTimestamp with random cell values.
func FuzzParseTimestamp(f *testing.F) {
	seeds := []string{
		"2026-03-31",
		"2026-03-31 10:00:00",
		"2026-03-31T10:00:00Z",
		"3/31/2026",
		"Mar 31, 2026",
		"46112",
		"NaT",
		"", // edge case
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		ts, ok := ParseTimestamp(input)
		if !ok {
			return
		}
		// Every parsed timestamp must land in a bucket whose label parses back
		for _, g := range []schema.Granularity{schema.Day, schema.Week, schema.Month, schema.Year} {
			key := BucketKey(ts, g)
			if key.At.After(ts) && g != schema.Week {
				t.Errorf("bucket %s starts after %v", key.Label, ts)
			}
			if ts.Year() >= 1000 && ts.Year() <= 9998 {
				if _, ok := ParseBucketLabel(key.Label); !ok {
					t.Errorf("label %q for %v does not parse", key.Label, ts)
				}
			}
		}
	})
}
