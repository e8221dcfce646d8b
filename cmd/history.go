package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/iocache"
	"github.com/huangsam/leadpulse/schema"
)

// historyBackendFromConfig reads and validates the run history settings.
// An empty backend means run history is off.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}

	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for run history operations.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no table cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend {
		connStr = sqlitePathOr(connStr, contract.GetHistoryDBFilePath())
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by dashboard commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of dashboard runs and exports",
	Long: `Manage the recorded history of dashboard runs.

When --history-backend is set, every dashboard run records its page, period,
row counts and every plotted point. The history can be exported to Parquet
for BI tools and compared over time.

Supported backends: SQLite, MySQL, PostgreSQL, or None

Subcommands:
  status  - Show run history statistics
  clear   - Remove all recorded runs
  export  - Write runs and points to Parquet files
  migrate - Move the schema to a target version`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded dashboard runs",
	Long: `Delete all recorded runs and chart points.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history and migration tables

Examples:
  leadpulse history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseCaching()
		dbPath := sqlitePathOr(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbPath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the recorded run history.

Displays:
- Backend type and connection status
- Number of runs and recorded points
- Last and oldest run timestamps
- Row counts per table

Examples:
  leadpulse history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports the run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export every recorded run and chart point to Parquet.

Two files are written next to --output-file:
  <output-file>.dashboard_runs.parquet
  <output-file>.chart_points.parquet

Examples:
  leadpulse history export --history-backend sqlite --output-file history`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the run history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

Examples:
  # Upgrade to the latest schema
  leadpulse history migrate --history-backend sqlite

  # Roll back to version 1
  leadpulse history migrate --history-backend postgresql --target-version 1`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
