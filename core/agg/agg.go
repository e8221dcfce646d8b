// Package agg has the count, sum and mean reductions behind every dashboard chart.
// Inputs are never mutated.
package agg

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/leadpulse/core/period"
	"github.com/huangsam/leadpulse/schema"
)

// group accumulates one distinct key in first-encountered order.
type group struct {
	key  string
	rows int     // rows carrying the key
	n    int     // rows that contributed to sum
	sum  float64 // sum of contributing values
}

// Aggregate reduces valueColumn per distinct value of groupColumn.
//
// CountOp counts rows per group (valueColumn is ignored) and sorts by count
// descending with ties in first-encountered order. SumOp and MeanOp only use
// present numeric values, and MeanOp also skips non-positive values since
// those stand for "not scored". Both keep first-encountered group order.
// Rows with an empty group value are skipped.
func Aggregate(t *schema.Table, groupColumn, valueColumn string, op schema.AggOp) ([]schema.GroupValue, error) {
	if _, ok := schema.ValidAggOps[op]; !ok {
		return nil, fmt.Errorf("unsupported aggregation %q", op)
	}
	groups, err := collect(t, groupColumn, valueColumn, op)
	if err != nil {
		return nil, err
	}

	out := make([]schema.GroupValue, 0, len(groups))
	for _, g := range groups {
		switch op {
		case schema.CountOp:
			out = append(out, schema.GroupValue{Group: g.key, Value: float64(g.rows), Count: g.rows})
		case schema.SumOp:
			if g.n > 0 {
				out = append(out, schema.GroupValue{Group: g.key, Value: g.sum, Count: g.n})
			}
		case schema.MeanOp:
			if g.n > 0 {
				out = append(out, schema.GroupValue{Group: g.key, Value: g.sum / float64(g.n), Count: g.n})
			}
		}
	}

	if op == schema.CountOp {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	}
	return out, nil
}

// TopN returns the n most frequent values of column. n <= 0 keeps every value.
func TopN(t *schema.Table, column string, n int) ([]schema.CategoryCount, error) {
	counts, err := Aggregate(t, column, "", schema.CountOp)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	out := make([]schema.CategoryCount, len(counts))
	for i, c := range counts {
		out[i] = schema.CategoryCount{Value: c.Group, Count: c.Count}
	}
	return out, nil
}

// AverageByBucket returns the mean of valueColumn per bucket label in chronological order.
func AverageByBucket(t *schema.Table, bucketColumn, valueColumn string) ([]schema.BucketValue, error) {
	return byBucket(t, bucketColumn, valueColumn, schema.MeanOp)
}

// SumByBucket returns the sum of valueColumn per bucket label in chronological order.
func SumByBucket(t *schema.Table, bucketColumn, valueColumn string) ([]schema.BucketValue, error) {
	return byBucket(t, bucketColumn, valueColumn, schema.SumOp)
}

// CountByBucket returns the number of rows per bucket label in chronological order.
func CountByBucket(t *schema.Table, bucketColumn string) ([]schema.BucketValue, error) {
	return byBucket(t, bucketColumn, "", schema.CountOp)
}

// FillGaps returns values with a zero entry for every bucket of granularity g
// missing between the first and last entry. values must be chronological.
// Labels that were not cut with g come back unchanged.
func FillGaps(values []schema.BucketValue, g schema.Granularity) []schema.BucketValue {
	if len(values) < 2 {
		return values
	}
	first, ok := period.ParseBucketLabel(values[0].Bucket)
	if !ok {
		return values
	}
	last, ok := period.ParseBucketLabel(values[len(values)-1].Bucket)
	if !ok {
		return values
	}
	start := period.BucketKey(first, g)
	if start.Label != values[0].Bucket {
		return values
	}

	present := make(map[string]schema.BucketValue, len(values))
	for _, v := range values {
		present[v.Bucket] = v
	}
	var out []schema.BucketValue
	matched := 0
	for k := start; !k.At.After(last); k = period.NextBucket(k, g) {
		if v, ok := present[k.Label]; ok {
			out = append(out, v)
			matched++
			continue
		}
		out = append(out, schema.BucketValue{Bucket: k.Label})
	}
	if matched != len(values) {
		return values
	}
	return out
}

func byBucket(t *schema.Table, bucketColumn, valueColumn string, op schema.AggOp) ([]schema.BucketValue, error) {
	values, err := Aggregate(t, bucketColumn, valueColumn, op)
	if err != nil {
		return nil, err
	}
	out := make([]schema.BucketValue, len(values))
	for i, v := range values {
		out[i] = schema.BucketValue{Bucket: v.Group, Value: v.Value, Count: v.Count}
	}
	sort.SliceStable(out, func(i, j int) bool { return period.LessLabel(out[i].Bucket, out[j].Bucket) })
	return out, nil
}

// SumByBucketAndGroup sums valueColumn per (bucket, group) pair. Percent is the
// pair's sum over the number of rows in the bucket that carry a value, times 100.
// Output is ordered by bucket chronologically, then by first-encountered group.
func SumByBucketAndGroup(t *schema.Table, bucketColumn, groupColumn, valueColumn string) ([]schema.GroupedBucketValue, error) {
	bucketIdx, err := columnIndex(t, bucketColumn)
	if err != nil {
		return nil, err
	}
	groupIdx, err := columnIndex(t, groupColumn)
	if err != nil {
		return nil, err
	}
	valueIdx, err := columnIndex(t, valueColumn)
	if err != nil {
		return nil, err
	}

	type pairKey struct{ bucket, group string }
	pairs := make(map[pairKey]*schema.GroupedBucketValue)
	var order []pairKey
	present := make(map[string]int)

	for i := range t.Rows {
		bucket := strings.TrimSpace(t.Cell(i, bucketIdx))
		grp := strings.TrimSpace(t.Cell(i, groupIdx))
		if bucket == "" {
			continue
		}
		raw := t.Cell(i, valueIdx)
		if strings.TrimSpace(raw) != "" {
			present[bucket]++
		}
		if grp == "" {
			continue
		}
		k := pairKey{bucket, grp}
		p, ok := pairs[k]
		if !ok {
			p = &schema.GroupedBucketValue{Bucket: bucket, Group: grp}
			pairs[k] = p
			order = append(order, k)
		}
		if v, ok := ParseNumber(raw); ok {
			p.Sum += v
		}
	}

	out := make([]schema.GroupedBucketValue, 0, len(order))
	for _, k := range order {
		p := pairs[k]
		p.Rows = present[k.bucket]
		if p.Rows > 0 {
			p.Percent = p.Sum / float64(p.Rows) * 100
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return period.LessLabel(out[i].Bucket, out[j].Bucket) })
	return out, nil
}

// FilterEquals returns a copy of the rows whose column equals value, ignoring case
// and surrounding whitespace.
func FilterEquals(t *schema.Table, column, value string) (*schema.Table, error) {
	idx, err := columnIndex(t, column)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(value)
	out := schema.NewTable(t.Columns)
	for i, r := range t.Rows {
		if strings.EqualFold(strings.TrimSpace(t.Cell(i, idx)), want) {
			out.AppendCopy(r)
		}
	}
	return out, nil
}

// ParseNumber reads a numeric cell. Boolean markers count as 1 or 0. NaN and
// infinities are not numbers here.
func ParseNumber(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "":
		return 0, false
	case "true", "t", "yes":
		return 1, true
	case "false", "f", "no":
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// collect walks the table once and accumulates every group.
func collect(t *schema.Table, groupColumn, valueColumn string, op schema.AggOp) ([]*group, error) {
	groupIdx, err := columnIndex(t, groupColumn)
	if err != nil {
		return nil, err
	}
	valueIdx := -1
	if op != schema.CountOp {
		if valueIdx, err = columnIndex(t, valueColumn); err != nil {
			return nil, err
		}
	}

	index := make(map[string]*group)
	var groups []*group
	for i := range t.Rows {
		key := strings.TrimSpace(t.Cell(i, groupIdx))
		if key == "" {
			continue
		}
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows++
		if valueIdx < 0 {
			continue
		}
		v, ok := ParseNumber(t.Cell(i, valueIdx))
		if !ok || (op == schema.MeanOp && v <= 0) {
			continue
		}
		g.sum += v
		g.n++
	}
	return groups, nil
}

func columnIndex(t *schema.Table, column string) (int, error) {
	if t == nil {
		return -1, fmt.Errorf("column %q: %w", column, schema.ErrEmptyDataset)
	}
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return -1, fmt.Errorf("column %q: %w", column, schema.ErrMissingColumn)
	}
	return idx, nil
}
