package assets

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	other := filepath.Join(dir, "other.png")
	require.NoError(t, writeFile(path, "v0"))

	var calls atomic.Int32
	w, err := NewWatcher(path, func(got string) {
		assert.Equal(t, filepath.Clean(path), got)
		calls.Add(1)
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, writeFile(other, "ignored"))
	for i := 0; i < 5; i++ {
		require.NoError(t, writeFile(path, "v"+string(rune('1'+i))))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")

	w, err := NewWatcher(path, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "tex.png"), func(string) {})
	assert.Error(t, err)
}
