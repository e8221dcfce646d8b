package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// Table names for run history.
const (
	dashboardRunsTable = "leadpulse_dashboard_runs"
	chartPointsTable   = "leadpulse_chart_points"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is brought up to date through the embedded migrations before the store is returned.
// MySQL connection strings need parseTime=true so DATETIME columns scan into time.Time.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := ensureHistorySchema(backend, connStr); err != nil {
		return nil, err
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new dashboard run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(dashboardRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert dashboard run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(dashboardRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	p := func(n int) string { return placeholder(hs.backend, n) }
	updateQuery := fmt.Sprintf(
		`UPDATE %s SET end_time = %s, run_duration_ms = %s, page = %s, period = %s, granularity = %s, total_rows = %s, window_rows = %s WHERE run_id = %s`,
		quotedTableName, p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8))
	args := []any{
		formatTime(endTime, hs.backend), durationMs,
		string(summary.Page), summary.Period, string(summary.Granularity),
		summary.TotalRows, summary.WindowRows, runID,
	}

	if _, err := hs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update dashboard run: %w", err)
	}
	return nil
}

// RecordChartPoints stores every point of one rendered chart in a single transaction.
func (hs *HistoryStoreImpl) RecordChartPoints(runID int64, chart string, points []schema.ChartPoint, recordedTime time.Time) error {
	if hs.disabled() || len(points) == 0 {
		return nil
	}

	p := func(n int) string { return placeholder(hs.backend, n) }
	query := fmt.Sprintf(`INSERT INTO %s (run_id, chart, label, series, value, recorded_time) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoteTableName(chartPointsTable, hs.backend), p(1), p(2), p(3), p(4), p(5), p(6))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare chart point insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	recorded := formatTime(recordedTime, hs.backend)
	for _, pt := range points {
		if _, err := stmt.Exec(runID, chart, pt.Label, pt.Series, pt.Value, recorded); err != nil {
			return fmt.Errorf("failed to insert chart point %s/%s: %w", chart, pt.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chart points: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(dashboardRunsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastTime

		oldestTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime
	}

	for _, table := range []string{dashboardRunsTable, chartPointsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalPoints = int(status.TableSizes[chartPointsTable])

	return status, nil
}

// GetAllRuns retrieves all dashboard runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.DashboardRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, page, period, granularity,
		total_rows, window_rows, config_params FROM %s ORDER BY run_id`, quoteTableName(dashboardRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DashboardRunRecord
	for rows.Next() {
		var record schema.DashboardRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.Page, &record.Period, &record.Granularity,
				&record.TotalRows, &record.WindowRows, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan dashboard run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.Page, &record.Period, &record.Granularity,
				&record.TotalRows, &record.WindowRows, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan dashboard run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboard runs: %w", err)
	}
	return results, nil
}

// GetAllChartPoints retrieves all chart points from the store.
func (hs *HistoryStoreImpl) GetAllChartPoints() ([]schema.ChartPointRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, chart, label, series, value, recorded_time FROM %s ORDER BY run_id, chart`,
		quoteTableName(chartPointsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ChartPointRecord
	for rows.Next() {
		var record schema.ChartPointRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var recordedStr string
			if err := rows.Scan(&record.RunID, &record.Chart, &record.Label, &record.Series, &record.Value, &recordedStr); err != nil {
				return nil, fmt.Errorf("failed to scan chart point: %w", err)
			}
			recorded, err := time.Parse(time.RFC3339Nano, recordedStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse recorded_time: %w", err)
			}
			record.RecordedTime = recorded
		default:
			if err := rows.Scan(&record.RunID, &record.Chart, &record.Label, &record.Series, &record.Value, &record.RecordedTime); err != nil {
				return nil, fmt.Errorf("failed to scan chart point: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chart points: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column, parsing SQLite's text encoding.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(&raw); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, raw)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
