// Package contract provides interfaces and shared utilities for leadpulse's internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/leadpulse/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetTableStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking dashboard runs and the points they rendered.
type HistoryStore interface {
	// BeginRun creates a new dashboard run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// RecordChartPoints stores every point of one rendered chart
	RecordChartPoints(runID int64, chart string, points []schema.ChartPoint, recordedTime time.Time) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run in ID order
	GetAllRuns() ([]schema.DashboardRunRecord, error)

	// GetAllChartPoints returns every recorded chart point in run order
	GetAllChartPoints() ([]schema.ChartPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
