package period

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// timestampLayouts are tried in order until one parses.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"Jan-02-2006",
}

// Spreadsheet serial day numbers in this range cover 1954..2119.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseTimestamp parses a cell into a timestamp. Empty cells and the null
// markers NaT, null, nan and none report false, as does anything unparsable.
// Timestamps with an offset are returned in UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "nat", "null", "nan", "none":
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
