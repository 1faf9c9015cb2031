package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderWatcher(t *testing.T) {
	dir := t.TempDir()
	vertex := filepath.Join(dir, "Basic.vertex")
	fragment := filepath.Join(dir, "Basic.fragment")
	other := filepath.Join(dir, "notes.txt")
	for _, f := range []string{vertex, fragment, other} {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}

	sw, err := watchShaders(vertex, fragment)
	require.NoError(t, err)
	defer sw.Close()

	// Both files share one directory watch.
	assert.Len(t, sw.watcher.WatchList(), 1)
	assert.False(t, sw.Changed())

	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(fragment, []byte("y"), 0o644))

	assert.Eventually(t, sw.Changed, 5*time.Second, 10*time.Millisecond)
}

func TestShaderWatcherMissingDir(t *testing.T) {
	_, err := watchShaders(filepath.Join(t.TempDir(), "nope", "Basic.vertex"))
	assert.Error(t, err)
}
