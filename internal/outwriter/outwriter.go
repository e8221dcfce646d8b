// Package outwriter renders dashboards and period listings.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the output formats and keeps them out of the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDashboard prints a dashboard page using the configured output format.
func (ow *OutWriter) WriteDashboard(result *schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	return PrintDashboard(result, cfg, duration)
}

// WritePeriods prints the period selector options using the configured output format.
func (ow *OutWriter) WritePeriods(policies []schema.PeriodPolicy, cfg *contract.Config) error {
	return PrintPeriods(policies, cfg)
}

// Label column bounds in text tables.
const (
	defaultTermWidth = 80
	minLabelWidth    = 12
	maxLabelWidth    = 60
)

// getTermWidth returns the --width override, the detected terminal width, or
// a conservative default for pipes and CI.
func getTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return defaultTermWidth
	}
	return detected
}

// GetMaxLabelWidth calculates the widest label a chart table may show before
// truncation, based on terminal width and the number of value columns.
func GetMaxLabelWidth(cfg *contract.Config, multiSeries bool) int {
	// Value + Count columns with borders/padding
	baseWidth := 30
	if multiSeries {
		baseWidth += 20 // Series column
	}

	available := getTermWidth(cfg) - baseWidth
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
