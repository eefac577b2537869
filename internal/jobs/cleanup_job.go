package job

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdriyaz-a/captionflow/internal/publisher"
)

const staleAfter = 24 * time.Hour

// CleanupJob sweeps the upload directory for leftovers from publish runs:
// uploader marker files and the normalized Instagram copies. Both are
// derived artifacts; the original upload is never touched.
type CleanupJob struct {
	uploadDir string
}

func NewCleanupJob(uploadDir string) *CleanupJob {
	return &CleanupJob{uploadDir: uploadDir}
}

func (c *CleanupJob) Sweep() {
	entries, err := os.ReadDir(c.uploadDir)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	cutoff := time.Now().Add(-staleAfter)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		isMarker := strings.HasSuffix(name, publisher.MarkerSuffix)
		isNormalized := strings.HasSuffix(name, "_instagram.jpg")
		if !isMarker && !isNormalized {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(c.uploadDir, name)); err != nil {
			slog.Info(err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info(fmt.Sprintf("cleanup removed %d stale publish artifacts", removed))
	}
}
