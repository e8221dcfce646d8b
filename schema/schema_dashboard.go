package schema

import "time"

// GroupValue is one reduced value for a distinct group.
type GroupValue struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
	Count int     `json:"count"` // Rows that contributed to Value
}

// CategoryCount is one entry of a top-N view.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// BucketValue is one reduced value for a time bucket.
type BucketValue struct {
	Bucket string  `json:"bucket"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// GroupedBucketValue is a sum per (bucket, group) with the share of rows that carried a value.
type GroupedBucketValue struct {
	Bucket  string  `json:"bucket"`
	Group   string  `json:"group"`
	Sum     float64 `json:"sum"`
	Rows    int     `json:"rows"`
	Percent float64 `json:"percent"` // Sum / Rows * 100
}

// ChartPoint is a single plotted value. Series is empty for single-series charts.
type ChartPoint struct {
	Label  string  `json:"label"`
	Series string  `json:"series,omitempty"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// Chart is either populated or a placeholder carrying the reason it is empty.
type Chart struct {
	Title  string       `json:"title"`
	Kind   ChartKind    `json:"kind"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Points []ChartPoint `json:"points"`
	Empty  bool         `json:"empty"`
	Reason string       `json:"reason,omitempty"`
}

// NoDataReason is the placeholder text shown in place of an empty chart.
const NoDataReason = "no data for this period"

// DashboardResult is everything a page renders for one period selection.
type DashboardResult struct {
	Page        PageName    `json:"page"`
	Period      string      `json:"period"`
	Granularity Granularity `json:"granularity"`
	Reference   time.Time   `json:"reference"`
	TotalRows   int         `json:"total_rows"`
	WindowRows  int         `json:"window_rows"`
	Charts      []Chart     `json:"charts"`
}

// Placeholders returns the number of charts that rendered as placeholders.
func (r DashboardResult) Placeholders() int {
	n := 0
	for _, c := range r.Charts {
		if c.Empty {
			n++
		}
	}
	return n
}
