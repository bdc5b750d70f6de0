package logfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesLogsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	w, err := New(dir, "2026-01-01")
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFilenameCarriesDateAndExtension(t *testing.T) {
	w, err := New(t.TempDir(), "2026-01-01")
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	base := filepath.Base(w.Path())
	assert.True(t, strings.HasPrefix(base, "2026-01-01_"), "got %q", base)
	assert.True(t, strings.HasSuffix(base, ".ndjson"), "got %q", base)
}

func TestWriteAppendsRawBytes(t *testing.T) {
	w, err := New(t.TempDir(), "2026-01-01")
	require.NoError(t, err)

	lines := []string{
		`{"type":"status","message":"a"}` + "\n",
		`{"type":"complete"}` + "\n",
	}
	for _, l := range lines {
		n, err := w.Write([]byte(l))
		require.NoError(t, err)
		assert.Equal(t, len(l), n)
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, ""), string(data))
}
