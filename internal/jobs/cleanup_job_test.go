package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestCleanupJob_Sweep(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	staleMarker := filepath.Join(dir, "img.jpg.REMOVE_ME")
	staleNormalized := filepath.Join(dir, "photo_instagram.jpg")
	freshMarker := filepath.Join(dir, "new.jpg.REMOVE_ME")
	original := filepath.Join(dir, "7_abc.png")

	touch(t, staleMarker, old)
	touch(t, staleNormalized, old)
	touch(t, freshMarker, recent)
	touch(t, original, old)

	NewCleanupJob(dir).Sweep()

	assert.NoFileExists(t, staleMarker)
	assert.NoFileExists(t, staleNormalized)
	assert.FileExists(t, freshMarker)
	assert.FileExists(t, original)
}

func TestCleanupJob_MissingDir(t *testing.T) {
	// Must not panic.
	NewCleanupJob(filepath.Join(t.TempDir(), "does-not-exist")).Sweep()
}
