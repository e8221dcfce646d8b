// Package cmd defines the command-line interface for leadpulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("period", "p", contract.DefaultPeriod, "Named period: 'Last 30 days', 'Last 12 Weeks', 'Last 1 Year', 'All Time' or 'Last 12 Months'")
	rootCmd.PersistentFlags().StringP("granularity", "g", "", "Bucket unit override: day or week or month or year")
	rootCmd.PersistentFlags().String("sheet", "", "Spreadsheet sheet to read (defaults to the first sheet)")
	rootCmd.PersistentFlags().String("timestamp-column", "", "Timestamp column for trend, top and scores (defaults to the leads timestamp)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of top values to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write structured debug logs to stderr")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Table cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for the cache (SQLite path, MySQL DSN, PostgreSQL DSN or redis:// URL)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored titles in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of topCmd to Viper
	topCmd.Flags().String("column", "", "Categorical column to rank")
	if err := viper.BindPFlags(topCmd.Flags()); err != nil {
		contract.LogFatal("Error binding top flags", err)
	}

	// Bind all flags of scoresCmd to Viper
	scoresCmd.Flags().String("columns", "", "Comma-separated score columns to average")
	if err := viper.BindPFlags(scoresCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scores flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
