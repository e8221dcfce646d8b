package period

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/leadpulse/schema"
)

// dailyTable builds one row per day between from and to inclusive.
func dailyTable(from, to time.Time) *schema.Table {
	tbl := schema.NewTable([]string{"INVITATIONDT", "CAMPAIGNTITLE"})
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		tbl.AppendCopy(schema.Row{d.Format("2006-01-02"), "c-" + d.Format("02")})
	}
	return tbl
}

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		name        string
		lookback    schema.Lookback
		granularity schema.Granularity
	}{
		{"Last 30 days", schema.Lookback{Days: 30}, schema.Day},
		{"Last 12 Weeks", schema.Lookback{Days: 84}, schema.Week},
		{"Last 1 Year", schema.Lookback{Years: 1}, schema.Month},
		{"All Time", schema.Lookback{}, schema.Month},
		{"Last 12 Months", schema.Lookback{Months: 12}, schema.Month},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolveWindow(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.lookback, p.Lookback)
			assert.Equal(t, tt.granularity, p.Granularity)
		})
	}
}

func TestResolveWindowNormalizesName(t *testing.T) {
	p, err := ResolveWindow("  last 12 weeks ")
	require.NoError(t, err)
	assert.Equal(t, schema.Last12Weeks, p.Name)
}

func TestResolveWindowInvalid(t *testing.T) {
	for _, name := range []string{"", "Last 7 days", "Yesterday"} {
		_, err := ResolveWindow(name)
		assert.ErrorIs(t, err, schema.ErrInvalidPeriod, name)
	}
}

func TestListPeriodNames(t *testing.T) {
	names := ListPeriodNames()
	assert.Equal(t, []string{"Last 30 days", "Last 12 Weeks", "Last 1 Year", "All Time", "Last 12 Months"}, names)

	names[0] = "changed"
	assert.Equal(t, "Last 30 days", ListPeriodNames()[0])
}

func TestFilterByWindowInclusiveBoundary(t *testing.T) {
	tbl := dailyTable(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	out, ref, err := FilterByWindow(tbl, "INVITATIONDT", schema.Lookback{Days: 30})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), ref)
	require.Equal(t, 31, out.Len())
	assert.Equal(t, "2024-01-01", out.Rows[0][0])
	assert.Equal(t, "2024-01-31", out.Rows[30][0])
}

func TestFilterByWindowLeapDayYear(t *testing.T) {
	tbl := schema.NewTable([]string{"INVITATIONDT"})
	for _, d := range []string{"2023-02-27", "2023-02-28", "2023-03-01", "2024-02-29"} {
		tbl.AppendCopy(schema.Row{d})
	}

	for _, name := range []string{schema.Last1Year, schema.Last12Months} {
		t.Run(name, func(t *testing.T) {
			out, _, err := Apply(tbl, "INVITATIONDT", name)
			require.NoError(t, err)
			assert.Equal(t, []schema.Row{{"2023-02-28"}, {"2023-03-01"}, {"2024-02-29"}}, out.Rows)
		})
	}
}

func TestFilterByWindowBoundProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := schema.NewTable([]string{"TS", "ID"})
	for i := 0; i < 500; i++ {
		ts := base.Add(time.Duration(rng.Intn(600*24)) * time.Hour)
		tbl.AppendCopy(schema.Row{ts.Format(time.RFC3339), string(rune('a' + i%26))})
	}

	for _, name := range []string{schema.Last30Days, schema.Last12Weeks, schema.Last1Year, schema.Last12Months} {
		t.Run(name, func(t *testing.T) {
			policy, err := ResolveWindow(name)
			require.NoError(t, err)
			out, ref, err := FilterByWindow(tbl, "TS", policy.Lookback)
			require.NoError(t, err)

			lower := policy.Lookback.From(ref)
			expected := 0
			for _, r := range tbl.Rows {
				ts, ok := ParseTimestamp(r[0])
				require.True(t, ok)
				if !ts.Before(lower) {
					expected++
				}
			}
			assert.Equal(t, expected, out.Len())

			// order is preserved, so the output is a subsequence of the input
			j := 0
			for _, r := range tbl.Rows {
				if j < out.Len() && r[0] == out.Rows[j][0] && r[1] == out.Rows[j][1] {
					j++
				}
			}
			assert.Equal(t, out.Len(), j)

			for _, r := range out.Rows {
				ts, _ := ParseTimestamp(r[0])
				assert.False(t, ts.Before(lower))
			}
		})
	}
}

func TestFilterByWindowNoLookbackCopies(t *testing.T) {
	tbl := dailyTable(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))

	out, _, err := FilterByWindow(tbl, "INVITATIONDT", schema.Lookback{})
	require.NoError(t, err)
	require.Equal(t, tbl.Rows, out.Rows)
	assert.NotSame(t, tbl, out)

	out.Rows[0][1] = "mutated"
	out.Columns[0] = "mutated"
	assert.Equal(t, "c-01", tbl.Rows[0][1])
	assert.Equal(t, "INVITATIONDT", tbl.Columns[0])
}

func TestFilterByWindowSkipsUnparsable(t *testing.T) {
	tbl := schema.NewTable([]string{"TS"})
	tbl.AppendCopy(schema.Row{"2024-02-01"})
	tbl.AppendCopy(schema.Row{"NaT"})
	tbl.AppendCopy(schema.Row{"not a date"})
	tbl.AppendCopy(schema.Row{""})
	tbl.AppendCopy(schema.Row{"2024-02-10"})

	out, ref, err := FilterByWindow(tbl, "TS", schema.Lookback{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), ref)
	assert.Equal(t, 2, out.Len())
}

func TestFilterByWindowErrors(t *testing.T) {
	empty := schema.NewTable([]string{"TS"})
	_, _, err := FilterByWindow(empty, "TS", schema.Lookback{Days: 30})
	assert.ErrorIs(t, err, schema.ErrEmptyDataset)

	_, _, err = FilterByWindow(nil, "TS", schema.Lookback{})
	assert.ErrorIs(t, err, schema.ErrEmptyDataset)

	nulls := schema.NewTable([]string{"TS"})
	nulls.AppendCopy(schema.Row{"null"})
	_, _, err = FilterByWindow(nulls, "TS", schema.Lookback{})
	assert.ErrorIs(t, err, schema.ErrEmptyDataset)

	_, _, err = FilterByWindow(nulls, "OTHER", schema.Lookback{})
	assert.ErrorIs(t, err, schema.ErrMissingColumn)
}

func TestApply(t *testing.T) {
	tbl := dailyTable(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	out, policy, err := Apply(tbl, "INVITATIONDT", "Last 30 days")
	require.NoError(t, err)
	assert.Equal(t, schema.Day, policy.Granularity)
	assert.Equal(t, 31, out.Len())

	out, policy, err = Apply(tbl, "INVITATIONDT", "All Time")
	require.NoError(t, err)
	assert.Equal(t, schema.Month, policy.Granularity)
	assert.Equal(t, tbl.Len(), out.Len())

	_, _, err = Apply(tbl, "INVITATIONDT", "Forever")
	assert.ErrorIs(t, err, schema.ErrInvalidPeriod)

	_, _, err = Apply(schema.NewTable([]string{"INVITATIONDT"}), "INVITATIONDT", "All Time")
	assert.ErrorIs(t, err, schema.ErrEmptyDataset)
}

func TestWithBucketColumn(t *testing.T) {
	tbl := schema.NewTable([]string{"TS"})
	tbl.AppendCopy(schema.Row{"2024-02-14"})
	tbl.AppendCopy(schema.Row{"garbage"})

	out, err := WithBucketColumn(tbl, "TS", schema.Month, "BUCKET")
	require.NoError(t, err)
	assert.Equal(t, []string{"TS", "BUCKET"}, out.Columns)
	assert.Equal(t, "Feb-2024", out.Rows[0][1])
	assert.Equal(t, "", out.Rows[1][1])
	assert.Equal(t, []string{"TS"}, tbl.Columns)
	assert.Len(t, tbl.Rows[0], 1)

	_, err = WithBucketColumn(tbl, "MISSING", schema.Day, "BUCKET")
	assert.ErrorIs(t, err, schema.ErrMissingColumn)

	_, err = WithBucketColumn(out, "TS", schema.Day, "BUCKET")
	assert.Error(t, err)
}

func TestFreeColumnName(t *testing.T) {
	tbl := schema.NewTable([]string{"TS"})
	assert.Equal(t, "BUCKET", FreeColumnName(tbl, "BUCKET"))

	tbl = schema.NewTable([]string{"TS", "BUCKET"})
	assert.Equal(t, "BUCKET_1", FreeColumnName(tbl, "BUCKET"))

	tbl = schema.NewTable([]string{"BUCKET_1", "TS", "BUCKET"})
	name := FreeColumnName(tbl, "BUCKET")
	assert.Equal(t, "BUCKET_2", name)

	out, err := WithBucketColumn(tbl, "TS", schema.Day, name)
	require.NoError(t, err)
	assert.Equal(t, []string{"BUCKET_1", "TS", "BUCKET", "BUCKET_2"}, out.Columns)
}
