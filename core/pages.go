package core

import (
	"fmt"

	"github.com/huangsam/leadpulse/core/agg"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// Fixed sizes of the leads page top-N charts.
const (
	leadsTopLarge = 10
	leadsTopSmall = 5
)

// buildPageSpec returns the charts of a page, wired to the configured columns.
func buildPageSpec(cfg *contract.Config, page schema.PageName) (pageSpec, error) {
	switch page {
	case schema.TrendPage:
		return trendSpec(cfg), nil
	case schema.TopPage:
		if cfg.Column == "" {
			return pageSpec{}, fmt.Errorf("--column is required for the %s page", page)
		}
		return topSpec(cfg), nil
	case schema.ScoresPage:
		if len(cfg.Columns) == 0 {
			return pageSpec{}, fmt.Errorf("--columns is required for the %s page", page)
		}
		return scoresSpec(cfg), nil
	case schema.LeadsPage:
		return leadsSpec(cfg), nil
	case schema.OverviewPage:
		return overviewSpec(cfg), nil
	default:
		return pageSpec{}, fmt.Errorf("unknown page %q", page)
	}
}

// genericTimestamp is the timestamp column of the trend, top and scores pages.
// It falls back to the leads layout when not given.
func genericTimestamp(cfg *contract.Config) string {
	if cfg.TimestampColumn != "" {
		return cfg.TimestampColumn
	}
	return cfg.Leads.Timestamp
}

func trendSpec(cfg *contract.Config) pageSpec {
	return pageSpec{
		page:     schema.TrendPage,
		tsColumn: genericTimestamp(cfg),
		charts:   []chartSpec{countTrendChart("Lead Count Trend")},
	}
}

func topSpec(cfg *contract.Config) pageSpec {
	return pageSpec{
		page:     schema.TopPage,
		tsColumn: genericTimestamp(cfg),
		charts:   []chartSpec{topChart(fmt.Sprintf("Top %d %s", cfg.ResultLimit, cfg.Column), cfg.Column, cfg.ResultLimit)},
		paramsFor: func() map[string]any {
			return map[string]any{"column": cfg.Column, "result_limit": cfg.ResultLimit}
		},
	}
}

func scoresSpec(cfg *contract.Config) pageSpec {
	charts := make([]chartSpec, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		charts = append(charts, averageChart("Average "+col, col))
	}
	return pageSpec{
		page:     schema.ScoresPage,
		tsColumn: genericTimestamp(cfg),
		charts:   charts,
		paramsFor: func() map[string]any {
			return map[string]any{"columns": cfg.Columns}
		},
	}
}

func leadsSpec(cfg *contract.Config) pageSpec {
	layout := cfg.Leads
	charts := []chartSpec{countTrendChart("Lead Count Trend")}
	for _, col := range layout.TopTen {
		charts = append(charts, topChart(fmt.Sprintf("Top %d %s", leadsTopLarge, col), col, leadsTopLarge))
	}
	for _, col := range layout.TopFive {
		charts = append(charts, topChart(fmt.Sprintf("Top %d %s", leadsTopSmall, col), col, leadsTopSmall))
	}
	charts = append(charts, repeatChart(layout.RepeatColumn, layout.RepeatMarker))

	return pageSpec{
		page:     schema.LeadsPage,
		tsColumn: layout.Timestamp,
		periods:  layout.Periods,
		charts:   charts,
	}
}

func overviewSpec(cfg *contract.Config) pageSpec {
	layout := cfg.Overview
	charts := []chartSpec{
		averageChart("Average "+layout.OverallScore, layout.OverallScore),
		countTrendChart("Lead Count"),
		subScoresChart(layout.SubScores),
		{
			title:  "Tests Completed by Site",
			kind:   schema.BucketChart,
			xLabel: "Time",
			yLabel: "Total Tests Completed",
			build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
				values, err := agg.SumByBucketAndGroup(t, b.column, layout.Site, layout.Completed)
				return groupedPoints(values, false), err
			},
		},
		{
			title:  "Test Completion (%)",
			kind:   schema.BucketChart,
			xLabel: "Time",
			yLabel: "Percentage of Tests Completed",
			build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
				values, err := agg.SumByBucketAndGroup(t, b.column, layout.Site, layout.Completed)
				return groupedPoints(values, true), err
			},
		},
		{
			title:  "For TS Review",
			kind:   schema.BucketChart,
			xLabel: "Time",
			yLabel: "For TS Review",
			build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
				values, err := agg.SumByBucket(t, b.column, layout.Review)
				return bucketPoints(values), err
			},
		},
	}

	return pageSpec{
		page:     schema.OverviewPage,
		tsColumn: layout.Timestamp,
		periods:  layout.Periods,
		charts:   charts,
	}
}

// countTrendChart counts rows per bucket. Buckets without rows count zero.
func countTrendChart(title string) chartSpec {
	return chartSpec{
		title:  title,
		kind:   schema.BucketChart,
		xLabel: "Time",
		yLabel: "Counts",
		build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
			values, err := agg.CountByBucket(t, b.column)
			return bucketPoints(agg.FillGaps(values, b.granularity)), err
		},
	}
}

// averageChart averages a score column per bucket.
func averageChart(title, column string) chartSpec {
	return chartSpec{
		title:  title,
		kind:   schema.BucketChart,
		xLabel: "Time",
		yLabel: "Score",
		build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
			values, err := agg.AverageByBucket(t, b.column, column)
			return bucketPoints(values), err
		},
	}
}

// topChart keeps the n most frequent values of column.
func topChart(title, column string, n int) chartSpec {
	return chartSpec{
		title:  title,
		kind:   schema.CategoryChart,
		xLabel: column,
		yLabel: "Counts",
		build: func(t *schema.Table, _ bucketing) ([]schema.ChartPoint, error) {
			counts, err := agg.TopN(t, column, n)
			if err != nil {
				return nil, err
			}
			points := make([]schema.ChartPoint, len(counts))
			for i, c := range counts {
				points[i] = schema.ChartPoint{Label: c.Value, Value: float64(c.Count), Count: c.Count}
			}
			return points, nil
		},
	}
}

// repeatChart counts rows per bucket whose repeat column carries the marker.
func repeatChart(column, marker string) chartSpec {
	return chartSpec{
		title:  "Repeat Application Counts",
		kind:   schema.BucketChart,
		xLabel: "Time",
		yLabel: "Counts",
		build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
			repeats, err := agg.FilterEquals(t, column, marker)
			if err != nil {
				return nil, err
			}
			values, err := agg.CountByBucket(repeats, b.column)
			return bucketPoints(agg.FillGaps(values, b.granularity)), err
		},
	}
}

// subScoresChart averages each sub-score per bucket, one series per column.
// Missing sub-score columns are left out; the chart is empty only when all are.
func subScoresChart(columns []string) chartSpec {
	return chartSpec{
		title:  "Talkscore Components",
		kind:   schema.BucketChart,
		xLabel: "Time",
		yLabel: "Score",
		build: func(t *schema.Table, b bucketing) ([]schema.ChartPoint, error) {
			var points []schema.ChartPoint
			var lastErr error
			for _, col := range columns {
				values, err := agg.AverageByBucket(t, b.column, col)
				if err != nil {
					lastErr = err
					continue
				}
				for _, v := range values {
					points = append(points, schema.ChartPoint{Label: v.Bucket, Series: col, Value: v.Value, Count: v.Count})
				}
			}
			if len(points) == 0 && lastErr != nil {
				return nil, lastErr
			}
			return points, nil
		},
	}
}

func bucketPoints(values []schema.BucketValue) []schema.ChartPoint {
	points := make([]schema.ChartPoint, len(values))
	for i, v := range values {
		points[i] = schema.ChartPoint{Label: v.Bucket, Value: v.Value, Count: v.Count}
	}
	return points
}

// groupedPoints flattens (bucket, group) sums into one series per group.
func groupedPoints(values []schema.GroupedBucketValue, percent bool) []schema.ChartPoint {
	points := make([]schema.ChartPoint, len(values))
	for i, v := range values {
		value := v.Sum
		if percent {
			value = v.Percent
		}
		points[i] = schema.ChartPoint{Label: v.Bucket, Series: v.Group, Value: value, Count: v.Rows}
	}
	return points
}
