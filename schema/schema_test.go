package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableClone(t *testing.T) {
	src := NewTable([]string{"A", "B"})
	src.AppendCopy(Row{"1", "2"})
	src.AppendCopy(Row{"3"})

	clone := src.Clone()
	require.Equal(t, src.Columns, clone.Columns)
	require.Equal(t, src.Rows, clone.Rows)

	clone.Rows[0][0] = "changed"
	clone.Columns[1] = "Z"
	assert.Equal(t, "1", src.Rows[0][0])
	assert.Equal(t, "B", src.Columns[1])
}

func TestTableCell(t *testing.T) {
	tbl := NewTable([]string{"A", "B"})
	tbl.AppendCopy(Row{"x"})

	idx, ok := tbl.ColumnIndex("B")
	require.True(t, ok)
	assert.Equal(t, "", tbl.Cell(0, idx))
	assert.Equal(t, "x", tbl.Cell(0, 0))

	_, ok = tbl.ColumnIndex("C")
	assert.False(t, ok)
	assert.False(t, tbl.HasColumn("C"))
}

func TestTableLenNil(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
}

func TestLookback(t *testing.T) {
	ref := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lookback Lookback
		want     time.Time
		str      string
	}{
		{"none", Lookback{}, ref, "none"},
		{"30 days", Lookback{Days: 30}, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "30d"},
		{"1 year", Lookback{Years: 1}, time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC), "1y"},
		{"12 months", Lookback{Months: 12}, time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC), "12mo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lookback.From(ref))
			assert.Equal(t, tt.str, tt.lookback.String())
		})
	}
	assert.True(t, Lookback{}.None())
	assert.False(t, Lookback{Days: 1}.None())
}

func TestLookbackClampsToMonthEnd(t *testing.T) {
	leapDay := time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 2, 28, 8, 30, 0, 0, time.UTC), Lookback{Years: 1}.From(leapDay))
	assert.Equal(t, time.Date(2023, 2, 28, 8, 30, 0, 0, time.UTC), Lookback{Months: 12}.From(leapDay))

	endOfMarch := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), Lookback{Months: 1}.From(endOfMarch))
	assert.Equal(t, time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), Lookback{Months: 3}.From(endOfMarch))
	assert.Equal(t, time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC), Lookback{Days: 84}.From(endOfMarch))
}

func TestDashboardResultPlaceholders(t *testing.T) {
	res := DashboardResult{Charts: []Chart{
		{Title: "a"},
		{Title: "b", Empty: true, Reason: NoDataReason},
		{Title: "c", Empty: true, Reason: NoDataReason},
	}}
	assert.Equal(t, 2, res.Placeholders())
}

func TestDefaultLayouts(t *testing.T) {
	leads := DefaultLeadsLayout()
	assert.Equal(t, "INVITATIONDT", leads.Timestamp)
	assert.Len(t, leads.TopTen, 4)
	assert.Len(t, leads.TopFive, 3)
	assert.Equal(t, []string{Last30Days, Last12Weeks, Last1Year, AllTime}, leads.Periods)

	overview := DefaultOverviewLayout()
	assert.Equal(t, "DATE_DAY", overview.Timestamp)
	assert.Len(t, overview.SubScores, 4)
	assert.Equal(t, []string{Last30Days, Last12Weeks, Last12Months}, overview.Periods)
}
