package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 1", precision: 1, value: 81.25, expected: "81.2"},
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "negative value", precision: 2, value: -42.567, expected: "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"period": "All Time", "rows": 3}))
	assert.Equal(t, "{\n  \"period\": \"All Time\",\n  \"rows\": 3\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"label", "value"}, func(w *csv.Writer) error {
		return w.Write([]string{"Manila, PH", "3"})
	})
	require.NoError(t, err)
	assert.Equal(t, "label,value\n\"Manila, PH\",3\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(w io.Writer) error {
			called = true
			assert.Equal(t, os.Stdout, w)
			return nil
		}, "Wrote test")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(out, func(w io.Writer) error {
			_, err := io.WriteString(w, "hello")
			return err
		}, "Wrote test")
		require.NoError(t, err)

		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(out, func(io.Writer) error { return assert.AnError }, "Wrote test")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("bad path", func(t *testing.T) {
		err := writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote test")
		assert.Error(t, err)
	})
}
