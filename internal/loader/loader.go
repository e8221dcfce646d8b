// Package loader reads flat data files into tables.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// ErrNoHeader is returned for files without a header row.
var ErrNoHeader = errors.New("missing header row")

// Load reads a CSV or spreadsheet file. For spreadsheets an empty sheet name
// selects the first sheet.
func Load(path, sheet string) (*schema.Table, error) {
	var (
		tbl *schema.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		tbl, err = loadCSVFile(path)
	case ".xlsx", ".xlsm":
		tbl, err = loadXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	contract.Logger().Debug("loaded table",
		zap.String("path", path),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", tbl.Len()))
	return tbl, nil
}

func loadCSVFile(path string) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV parses CSV with a header row. Short rows are padded and long rows
// are cut to the header width. Blank lines are skipped.
func ReadCSV(r io.Reader) (*schema.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return buildTable(header, records)
}

func loadXLSX(path, sheet string) (*schema.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found", sheet)
	}

	// Raw values keep dates as serial numbers instead of locale formatted text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return buildTable(rows[0], rows[1:])
}

func buildTable(header []string, records [][]string) (*schema.Table, error) {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "") {
		return nil, ErrNoHeader
	}

	tbl := schema.NewTable(columns)
	tbl.Rows = make([]schema.Row, 0, len(records))
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		row := make(schema.Row, len(columns))
		copy(row, rec)
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
