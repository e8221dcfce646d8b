package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huangsam/leadpulse/core/period"
	"github.com/huangsam/leadpulse/schema"
)

// Default values for configuration.
const (
	DefaultPeriod      = schema.Last30Days
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultBucketName  = "BUCKET"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a dashboard run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string
	Sheet     string // Spreadsheet sheet name (empty = first sheet)

	Period          string             // Canonical period name
	Granularity     schema.Granularity // Bucket override (empty = period default)
	TimestampColumn string
	Column          string   // Categorical column for the top command
	Columns         []string // Numeric columns for the scores command
	BucketColumn    string   // Name of the derived bucket column

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Verbose     bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Leads    schema.LeadsLayout
	Overview schema.OverviewLayout

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored headers and placeholders
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Period           string `mapstructure:"period"`
	Granularity      string `mapstructure:"granularity"`
	Sheet            string `mapstructure:"sheet"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Width            int    `mapstructure:"width"`
	Verbose          bool   `mapstructure:"verbose"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from trendCmd, topCmd and scoresCmd ---
	TimestampColumn string `mapstructure:"timestamp-column"`
	Column          string `mapstructure:"column"`
	Columns         string `mapstructure:"columns"`
	Limit           int    `mapstructure:"limit"`

	// --- Column layouts from config file ---
	Leads    schema.LeadsLayout    `mapstructure:"leads"`
	Overview schema.OverviewLayout `mapstructure:"overview"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Columns = slices.Clone(c.Columns)
	clone.Leads.TopTen = slices.Clone(c.Leads.TopTen)
	clone.Leads.TopFive = slices.Clone(c.Leads.TopFive)
	clone.Leads.Periods = slices.Clone(c.Leads.Periods)
	clone.Overview.SubScores = slices.Clone(c.Overview.SubScores)
	clone.Overview.Periods = slices.Clone(c.Overview.Periods)
	return &clone
}

// CloneWithPeriod creates a copy of the Config with another period and granularity.
func (c *Config) CloneWithPeriod(name string, g schema.Granularity) *Config {
	clone := c.Clone()
	clone.Period = name
	clone.Granularity = g
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeriod(cfg, input); err != nil {
		return err
	}
	processColumns(cfg, input)
	processLayouts(cfg, input)
	return resolveInputPath(cfg, input)
}

// RevalidateDashboard re-applies the input path and period selection of a single
// request on top of an already validated config. Empty values keep what cfg has.
func RevalidateDashboard(cfg *Config, inputPath, periodName, granularity string) error {
	input := &ConfigRawInput{InputPathStr: inputPath, Period: periodName, Granularity: granularity}
	if input.InputPathStr == "" {
		input.InputPathStr = cfg.InputPath
	}
	if input.Period == "" {
		input.Period = cfg.Period
	}
	if input.Granularity == "" {
		input.Granularity = string(cfg.Granularity)
	}
	if err := processPeriod(cfg, input); err != nil {
		return err
	}
	return resolveInputPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for the MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if _, err := redis.ParseURL(connStr); err != nil {
			return fmt.Errorf("Redis connection string must be a redis:// URL: %w", err)
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// SQLite cache and history must live in different files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Sheet = strings.TrimSpace(input.Sheet)
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 4. Width Validation ---
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}
	return nil
}

// processPeriod resolves the period name and the optional granularity override.
func processPeriod(cfg *Config, input *ConfigRawInput) error {
	name := input.Period
	if strings.TrimSpace(name) == "" {
		name = DefaultPeriod
	}
	policy, err := period.ResolveWindow(name)
	if err != nil {
		return err
	}
	cfg.Period = policy.Name

	cfg.Granularity = schema.Granularity(strings.ToLower(strings.TrimSpace(input.Granularity)))
	if cfg.Granularity == "" {
		return nil
	}
	if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
		return fmt.Errorf("invalid granularity '%s'. must be day, week, month, year", input.Granularity)
	}
	return nil
}

// processColumns handles the column selections of the generic commands.
// BucketColumn is only the preferred name of the derived column; a run picks
// a free variant when the input already has a column called that.
func processColumns(cfg *Config, input *ConfigRawInput) {
	cfg.TimestampColumn = strings.TrimSpace(input.TimestampColumn)
	cfg.Column = strings.TrimSpace(input.Column)
	cfg.BucketColumn = DefaultBucketName

	cfg.Columns = nil
	if input.Columns != "" {
		for c := range strings.SplitSeq(input.Columns, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				cfg.Columns = append(cfg.Columns, trimmed)
			}
		}
	}
}

// processLayouts fills every unset layout field with its default.
func processLayouts(cfg *Config, input *ConfigRawInput) {
	leads := schema.DefaultLeadsLayout()
	if input.Leads.Timestamp != "" {
		leads.Timestamp = input.Leads.Timestamp
	}
	if len(input.Leads.TopTen) > 0 {
		leads.TopTen = slices.Clone(input.Leads.TopTen)
	}
	if len(input.Leads.TopFive) > 0 {
		leads.TopFive = slices.Clone(input.Leads.TopFive)
	}
	if input.Leads.RepeatColumn != "" {
		leads.RepeatColumn = input.Leads.RepeatColumn
	}
	if input.Leads.RepeatMarker != "" {
		leads.RepeatMarker = input.Leads.RepeatMarker
	}
	if len(input.Leads.Periods) > 0 {
		leads.Periods = slices.Clone(input.Leads.Periods)
	}
	cfg.Leads = leads

	overview := schema.DefaultOverviewLayout()
	if input.Overview.Timestamp != "" {
		overview.Timestamp = input.Overview.Timestamp
	}
	if input.Overview.OverallScore != "" {
		overview.OverallScore = input.Overview.OverallScore
	}
	if len(input.Overview.SubScores) > 0 {
		overview.SubScores = slices.Clone(input.Overview.SubScores)
	}
	if input.Overview.Completed != "" {
		overview.Completed = input.Overview.Completed
	}
	if input.Overview.Site != "" {
		overview.Site = input.Overview.Site
	}
	if input.Overview.Review != "" {
		overview.Review = input.Overview.Review
	}
	if len(input.Overview.Periods) > 0 {
		overview.Periods = slices.Clone(input.Overview.Periods)
	}
	cfg.Overview = overview

	// The generic commands read the leads export unless told otherwise
	if cfg.TimestampColumn == "" {
		cfg.TimestampColumn = cfg.Leads.Timestamp
	}
}

// resolveInputPath makes the data file path absolute. Commands without a data
// file leave InputPathStr empty.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	p := strings.TrimSpace(input.InputPathStr)
	if p == "" {
		cfg.InputPath = ""
		return nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("failed to resolve input path %q: %w", p, err)
	}
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".csv", ".xlsx", ".xlsm":
	default:
		return fmt.Errorf("unsupported input file %q. must be .csv, .xlsx or .xlsm", p)
	}
	cfg.InputPath = abs
	return nil
}
