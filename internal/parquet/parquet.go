// Package parquet provides data structures and functions for exporting leadpulse
// run history and dashboard charts to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/leadpulse/schema"
)

// DashboardRun represents a single dashboard run with metadata.
// This struct maps to the leadpulse_dashboard_runs database table.
type DashboardRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Page is the dashboard page that was rendered (nullable)
	Page *string `parquet:"page,optional,snappy"`

	// Period is the selected period name (nullable)
	Period *string `parquet:"period,optional,snappy"`

	// Granularity is the bucket granularity (nullable)
	Granularity *string `parquet:"granularity,optional,snappy"`

	// TotalRows is the number of rows loaded before filtering
	TotalRows int32 `parquet:"total_rows,snappy"`

	// WindowRows is the number of rows inside the period window
	WindowRows int32 `parquet:"window_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ChartPoint represents one recorded point of a rendered chart.
// This struct maps to the leadpulse_chart_points database table.
type ChartPoint struct {
	RunID        int64     `parquet:"run_id,snappy"`
	Chart        string    `parquet:"chart,snappy"`
	Label        string    `parquet:"label,snappy"`
	Series       string    `parquet:"series,snappy"`
	Value        float64   `parquet:"value,snappy"`
	RecordedTime time.Time `parquet:"recorded_time,snappy"`
}

// DashboardPoint is a flattened chart point of a single dashboard result,
// used by the parquet output mode.
type DashboardPoint struct {
	Page        string  `parquet:"page,snappy,dict"`
	Period      string  `parquet:"period,snappy,dict"`
	Granularity string  `parquet:"granularity,snappy,dict"`
	Chart       string  `parquet:"chart,snappy,dict"`
	Label       string  `parquet:"label,snappy"`
	Series      string  `parquet:"series,snappy,dict"`
	Value       float64 `parquet:"value,snappy"`
	Count       int64   `parquet:"count,snappy"`
}

// Write writes rows of any parquet-tagged struct to w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteDashboardRunsParquet writes a slice of DashboardRun structs to a Parquet file.
func WriteDashboardRunsParquet(data []DashboardRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteChartPointsParquet writes a slice of ChartPoint structs to a Parquet file.
func WriteChartPointsParquet(data []ChartPoint, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertDashboardRunRecords converts schema.DashboardRunRecord to DashboardRun for Parquet export.
func ConvertDashboardRunRecords(records []schema.DashboardRunRecord) []DashboardRun {
	result := make([]DashboardRun, len(records))
	for i, record := range records {
		result[i] = DashboardRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Page:          record.Page,
			Period:        record.Period,
			Granularity:   record.Granularity,
			TotalRows:     record.TotalRows,
			WindowRows:    record.WindowRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertChartPointRecords converts schema.ChartPointRecord to ChartPoint for Parquet export.
func ConvertChartPointRecords(records []schema.ChartPointRecord) []ChartPoint {
	result := make([]ChartPoint, len(records))
	for i, record := range records {
		result[i] = ChartPoint(record)
	}
	return result
}

// FlattenDashboard turns every chart point of a result into one row.
// Placeholder charts contribute no rows.
func FlattenDashboard(result *schema.DashboardResult) []DashboardPoint {
	var rows []DashboardPoint
	for _, chart := range result.Charts {
		for _, pt := range chart.Points {
			rows = append(rows, DashboardPoint{
				Page:        string(result.Page),
				Period:      result.Period,
				Granularity: string(result.Granularity),
				Chart:       chart.Title,
				Label:       pt.Label,
				Series:      pt.Series,
				Value:       pt.Value,
				Count:       int64(pt.Count),
			})
		}
	}
	return rows
}
