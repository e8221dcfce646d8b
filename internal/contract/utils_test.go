package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 10))
	assert.Equal(t, "abcdefg...", TruncateLabel("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdef", TruncateLabel("abcdef", 3))
	assert.Equal(t, "héllo w...", TruncateLabel("héllo wörld campaign", 10))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".leadpulse_cache.db"))
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".leadpulse_history.db"))
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
	require.NoError(t, InitLogger(false))
	require.NoError(t, InitLogger(true))
	assert.NotNil(t, Logger())
	SyncLogger()
}
