package schema

import "time"

// RunSummary is what a finished dashboard run records about itself.
type RunSummary struct {
	Page        PageName
	Period      string
	Granularity Granularity
	TotalRows   int
	WindowRows  int
}

// DashboardRunRecord represents a row from the leadpulse_dashboard_runs table.
type DashboardRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Page          *string
	Period        *string
	Granularity   *string
	TotalRows     int32
	WindowRows    int32
	ConfigParams  *string
}

// ChartPointRecord represents a row from the leadpulse_chart_points table.
type ChartPointRecord struct {
	RunID        int64
	Chart        string
	Label        string
	Series       string
	Value        float64
	RecordedTime time.Time
}
