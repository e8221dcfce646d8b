package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	TitleColor       = color.New(color.FgCyan, color.Bold) // TitleColor marks chart titles.
	PlaceholderColor = color.New(color.FgYellow)           // PlaceholderColor marks charts without data.
	WarnColor        = color.New(color.FgMagenta)          // WarnColor marks recoverable problems.
)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, zapError(err))
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zapError(err))
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("Warn"), msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for table cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leadpulse_cache.db"
	}
	return filepath.Join(homeDir, ".leadpulse_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leadpulse_history.db"
	}
	return filepath.Join(homeDir, ".leadpulse_history.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
