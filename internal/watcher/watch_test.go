package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	select {
	case got := <-w.Changes:
		require.Equal(t, filepath.Clean(path), got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change event after write")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := New(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case got := <-w.Changes:
		t.Fatalf("unexpected change event for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}
