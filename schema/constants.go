package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// Granularity represents the calendar unit used to bucket timestamps.
	Granularity string

	// AggOp represents a reduction applied per group.
	AggOp string

	// PageName represents a dashboard page.
	PageName string

	// ChartKind represents how a chart's points are keyed.
	ChartKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // table cache only
	NoneBackend       DatabaseBackend = "none"
)

// All bucket granularities supported.
const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// All aggregation operations supported.
const (
	CountOp AggOp = "count"
	MeanOp  AggOp = "mean"
	SumOp   AggOp = "sum"
)

// Named periods offered by the period selector.
const (
	Last30Days   = "Last 30 days"
	Last12Weeks  = "Last 12 Weeks"
	Last1Year    = "Last 1 Year"
	AllTime      = "All Time"
	Last12Months = "Last 12 Months"
)

// All dashboard pages supported.
const (
	TrendPage    PageName = "trend"
	TopPage      PageName = "top"
	ScoresPage   PageName = "scores"
	LeadsPage    PageName = "leads"
	OverviewPage PageName = "overview"
)

// All chart kinds supported.
const (
	BucketChart   ChartKind = "bucket"   // points ordered chronologically
	CategoryChart ChartKind = "category" // points ordered by value, descending
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid table cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid run history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGranularities lists all valid bucket granularities.
var ValidGranularities = map[Granularity]struct{}{
	Day:   {},
	Week:  {},
	Month: {},
	Year:  {},
}

// ValidAggOps lists all valid aggregation operations.
var ValidAggOps = map[AggOp]struct{}{
	CountOp: {},
	MeanOp:  {},
	SumOp:   {},
}
