package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/leadpulse/core/period"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/parquet"
	"github.com/huangsam/leadpulse/schema"
)

// dashboardCSVHeader is shared by every page.
var dashboardCSVHeader = []string{"page", "period", "granularity", "chart", "label", "series", "value", "count"}

// PrintDashboard outputs a dashboard page, dispatching on the configured output format.
func PrintDashboard(result *schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardCSV(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.FlattenDashboard(result))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardText(w, result, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// LogDashboardHeader prints a concise, 2-line header before a page is computed.
func LogDashboardHeader(w io.Writer, cfg *contract.Config, page schema.PageName) {
	granularity := cfg.Granularity
	if granularity == "" {
		if policy, err := period.ResolveWindow(cfg.Period); err == nil {
			granularity = policy.Granularity
		}
	}

	// Line 1: what is being read
	_, _ = fmt.Fprintf(w, "%s %s (Page: %s)\n", icon(cfg, "🔎", "Input:"), displayInput(cfg), page)

	// Line 2: the period selection
	_, _ = fmt.Fprintf(w, "%s %s (by %s)\n", icon(cfg, "📅", "Period:"), cfg.Period, granularity)
}

// writeDashboardText renders one table per chart, with placeholders for charts without data.
func writeDashboardText(w io.Writer, result *schema.DashboardResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if result.WindowRows > 0 {
		if _, err := fmt.Fprintf(w, "Window: %d of %d rows up to %s\n",
			result.WindowRows, result.TotalRows, result.Reference.Format(time.DateOnly)); err != nil {
			return err
		}
	}

	for _, chart := range result.Charts {
		title := chart.Title
		if cfg.UseEmojis {
			title = chartIcon(chart) + " " + title
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", paint(cfg, contract.TitleColor, title)); err != nil {
			return err
		}

		if chart.Empty {
			if _, err := fmt.Fprintf(w, "%s\n", paint(cfg, contract.PlaceholderColor, "("+chart.Reason+")")); err != nil {
				return err
			}
			continue
		}
		if err := writeChartTable(w, chart, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nDashboard built in %v (%d charts, %d placeholders). Cache backend: %s\n",
		duration, len(result.Charts), result.Placeholders(), cfg.CacheBackend)
	return err
}

// writeChartTable renders the points of a populated chart.
func writeChartTable(w io.Writer, chart schema.Chart, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	multiSeries := hasSeries(chart)
	labelWidth := GetMaxLabelWidth(cfg, multiSeries)

	table := tablewriter.NewWriter(w)
	headers := []string{chart.XLabel}
	if multiSeries {
		headers = append(headers, "Series")
	}
	headers = append(headers, chart.YLabel, "Rows")
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range chart.Points {
		row := []string{contract.TruncateLabel(p.Label, labelWidth)}
		if multiSeries {
			row = append(row, contract.TruncateLabel(p.Series, labelWidth))
		}
		row = append(row, fmtFloat(p.Value), fmt.Sprintf(intFmt, p.Count))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeDashboardCSV writes one row per point. Placeholder charts have no rows.
func writeDashboardCSV(w io.Writer, result *schema.DashboardResult, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, dashboardCSVHeader, func(cw *csv.Writer) error {
		for _, chart := range result.Charts {
			for _, p := range chart.Points {
				rec := []string{
					string(result.Page),
					result.Period,
					string(result.Granularity),
					chart.Title,
					p.Label,
					p.Series,
					fmtFloat(p.Value),
					fmt.Sprintf(intFmt, p.Count),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func hasSeries(chart schema.Chart) bool {
	for _, p := range chart.Points {
		if p.Series != "" {
			return true
		}
	}
	return false
}

func chartIcon(chart schema.Chart) string {
	switch {
	case chart.Empty:
		return "🕳️"
	case chart.Kind == schema.CategoryChart:
		return "🏆"
	default:
		return "📈"
	}
}

// icon returns the emoji when enabled and the plain word otherwise.
func icon(cfg *contract.Config, emoji, word string) string {
	if cfg.UseEmojis {
		return emoji
	}
	return word
}

func paint(cfg *contract.Config, c *color.Color, s string) string {
	if !cfg.UseColors {
		return s
	}
	return c.Sprint(s)
}

func displayInput(cfg *contract.Config) string {
	if cfg.InputPath == "" {
		return "(none)"
	}
	if cfg.Sheet != "" {
		return cfg.InputPath + " [" + strconv.Quote(cfg.Sheet) + "]"
	}
	return cfg.InputPath
}
