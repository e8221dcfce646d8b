// Package period turns a named period selector into a time window and a bucket
// granularity, and applies both to a loaded table.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/leadpulse/schema"
)

// policies is the closed set of named periods in selector order.
var policies = []schema.PeriodPolicy{
	{Name: schema.Last30Days, Lookback: schema.Lookback{Days: 30}, Granularity: schema.Day},
	{Name: schema.Last12Weeks, Lookback: schema.Lookback{Days: 84}, Granularity: schema.Week},
	{Name: schema.Last1Year, Lookback: schema.Lookback{Years: 1}, Granularity: schema.Month},
	{Name: schema.AllTime, Lookback: schema.Lookback{}, Granularity: schema.Month},
	{Name: schema.Last12Months, Lookback: schema.Lookback{Months: 12}, Granularity: schema.Month},
}

// ListPeriodNames returns the selector values in display order.
func ListPeriodNames() []string {
	names := make([]string, len(policies))
	for i, p := range policies {
		names[i] = p.Name
	}
	return names
}

// ResolveWindow maps a period name to its lookback and bucket granularity.
// Names are matched after trimming whitespace and folding case.
func ResolveWindow(name string) (schema.PeriodPolicy, error) {
	trimmed := strings.TrimSpace(name)
	for _, p := range policies {
		if strings.EqualFold(p.Name, trimmed) {
			return p, nil
		}
	}
	return schema.PeriodPolicy{}, fmt.Errorf("%w: %q (must be one of: %s)",
		schema.ErrInvalidPeriod, name, strings.Join(ListPeriodNames(), ", "))
}

// FilterByWindow keeps the rows whose timestamp is at or after reference - lookback,
// where reference is the newest parsable timestamp in the table. Rows with a
// null or unparsable timestamp are dropped. The result is always a new table.
func FilterByWindow(t *schema.Table, tsColumn string, lb schema.Lookback) (*schema.Table, time.Time, error) {
	if t.Len() == 0 {
		return nil, time.Time{}, fmt.Errorf("filter on %q: %w", tsColumn, schema.ErrEmptyDataset)
	}
	col, ok := t.ColumnIndex(tsColumn)
	if !ok {
		return nil, time.Time{}, fmt.Errorf("filter on %q: %w", tsColumn, schema.ErrMissingColumn)
	}

	stamps := make([]time.Time, t.Len())
	valid := make([]bool, t.Len())
	var reference time.Time
	found := false
	for i := range t.Rows {
		ts, ok := ParseTimestamp(t.Cell(i, col))
		if !ok {
			continue
		}
		stamps[i], valid[i] = ts, true
		if !found || ts.After(reference) {
			reference = ts
			found = true
		}
	}
	if !found {
		return nil, time.Time{}, fmt.Errorf("no parsable %q timestamps: %w", tsColumn, schema.ErrEmptyDataset)
	}

	lower := lb.From(reference)
	out := schema.NewTable(t.Columns)
	for i, r := range t.Rows {
		if !valid[i] {
			continue
		}
		if !lb.None() && stamps[i].Before(lower) {
			continue
		}
		out.AppendCopy(r)
	}
	return out, reference, nil
}

// Apply resolves the period and filters the table by its window.
func Apply(t *schema.Table, tsColumn, name string) (*schema.Table, schema.PeriodPolicy, error) {
	policy, err := ResolveWindow(name)
	if err != nil {
		return nil, schema.PeriodPolicy{}, err
	}
	filtered, _, err := FilterByWindow(t, tsColumn, policy.Lookback)
	if err != nil {
		return nil, policy, err
	}
	return filtered, policy, nil
}

// FreeColumnName returns base when t has no such column, otherwise base with
// the smallest numeric suffix that t does not use.
func FreeColumnName(t *schema.Table, base string) string {
	name := base
	for i := 1; t.HasColumn(name); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// WithBucketColumn returns a copy of the table with an extra column holding the
// bucket label of each row. Rows without a parsable timestamp get an empty label.
func WithBucketColumn(t *schema.Table, tsColumn string, g schema.Granularity, column string) (*schema.Table, error) {
	col, ok := t.ColumnIndex(tsColumn)
	if !ok {
		return nil, fmt.Errorf("bucket on %q: %w", tsColumn, schema.ErrMissingColumn)
	}
	if t.HasColumn(column) {
		return nil, fmt.Errorf("bucket column %q already exists", column)
	}

	out := schema.NewTable(append(append([]string{}, t.Columns...), column))
	width := len(t.Columns)
	for i, r := range t.Rows {
		row := make(schema.Row, width+1)
		copy(row, r)
		if ts, ok := ParseTimestamp(t.Cell(i, col)); ok {
			row[width] = BucketKey(ts, g).Label
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
