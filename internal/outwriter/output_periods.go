package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// PrintPeriods lists the period selector options in display order.
func PrintPeriods(policies []schema.PeriodPolicy, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, policies)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePeriodsCSV(w, policies)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the period listing")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePeriodsText(w, policies, cfg)
		}, "Wrote text")
	}
}

func writePeriodsText(w io.Writer, policies []schema.PeriodPolicy, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s\n", paint(cfg, contract.TitleColor, "Period selector")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Lookback", "Granularity"})
	var data [][]string
	for _, p := range policies {
		data = append(data, []string{p.Name, p.Lookback.String(), string(p.Granularity)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writePeriodsCSV(w io.Writer, policies []schema.PeriodPolicy) error {
	return writeCSVWithHeader(w, []string{"name", "lookback", "granularity"}, func(cw *csv.Writer) error {
		for _, p := range policies {
			if err := cw.Write([]string{p.Name, p.Lookback.String(), string(p.Granularity)}); err != nil {
				return err
			}
		}
		return nil
	})
}
