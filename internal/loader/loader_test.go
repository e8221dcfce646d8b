package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/huangsam/leadpulse/schema"
)

func TestReadCSV(t *testing.T) {
	data := "\ufeffINVITATIONDT, SOURCE ,FOLDER\n" +
		"2024-01-01,web,a\n" +
		"2024-01-02,referral\n" +
		"\n" +
		"2024-01-03,web,b,extra\n"

	tbl, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"INVITATIONDT", "SOURCE", "FOLDER"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, schema.Row{"2024-01-02", "referral", ""}, tbl.Rows[1])
	assert.Equal(t, schema.Row{"2024-01-03", "web", "b"}, tbl.Rows[2])
}

func TestReadCSVNoHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644))

	tbl, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.Error(t, err)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("data.json", "")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overview.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"DATE_DAY", "TALKSCORE_OVERALL"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2024-02-01", 85}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"2024-02-02"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"X"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"y"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"DATE_DAY", "TALKSCORE_OVERALL"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, schema.Row{"2024-02-01", "85"}, tbl.Rows[0])
	assert.Equal(t, schema.Row{"2024-02-02", ""}, tbl.Rows[1])

	other, err := Load(path, "Other")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, other.Columns)

	_, err = Load(path, "Nope")
	assert.ErrorContains(t, err, "not found")
}
