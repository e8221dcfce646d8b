package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/parquet"
)

// ExecuteHistoryExport exports every recorded run and chart point to Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total dashboard runs: %d\n", status.TotalRuns)
	fmt.Printf("Total chart points: %d\n", status.TotalPoints)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve dashboard runs: %w", err)
	}

	points, err := store.GetAllChartPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve chart points: %w", err)
	}

	parquetRuns := parquet.ConvertDashboardRunRecords(runs)
	parquetPoints := parquet.ConvertChartPointRecords(points)

	runsFile := outputFile + ".dashboard_runs.parquet"
	if err := parquet.WriteDashboardRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write dashboard runs: %w", err)
	}
	fmt.Printf("Exported %d dashboard runs to: %s\n", len(parquetRuns), runsFile)

	pointsFile := outputFile + ".chart_points.parquet"
	if err := parquet.WriteChartPointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write chart points: %w", err)
	}
	fmt.Printf("Exported %d chart points to: %s\n", len(parquetPoints), pointsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
