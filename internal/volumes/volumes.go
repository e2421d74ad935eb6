package volumes

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stitchsync/internal/logging"
)

// Candidate is one mounted removable volume.
type Candidate struct {
	// Root is the volume's mount point.
	Root string
	// Name is a short human label for the volume.
	Name string
}

// Locator enumerates removable volumes for the current platform.
type Locator struct {
	logger       *slog.Logger
	queryTimeout time.Duration
}

// NewLocator builds a locator. Per-device metadata queries are bounded by a
// short timeout so one wedged device cannot stall the pipeline.
func NewLocator(logger *slog.Logger) *Locator {
	return &Locator{
		logger:       logging.NewComponentLogger(logger, "volumes"),
		queryTimeout: 5 * time.Second,
	}
}

// Candidates returns the removable volumes currently mounted, in stable
// discovery order. Devices that fail their metadata query are logged and
// skipped; the result is never an error, only possibly empty.
func (l *Locator) Candidates(ctx context.Context) []Candidate {
	return l.listCandidates(ctx)
}

// LocateDestination picks the copy destination from an ordered candidate
// list. When subpath is set, the first volume containing that directory
// wins; otherwise the first volume's root wins. The second return is false
// when no destination exists — callers must then leave files where they
// are, not fail.
func LocateDestination(candidates []Candidate, subpath string) (string, bool) {
	if subpath != "" {
		for _, c := range candidates {
			dest := filepath.Join(c.Root, filepath.FromSlash(subpath))
			if info, err := os.Stat(dest); err == nil && info.IsDir() {
				return dest, true
			}
		}
		return "", false
	}
	if len(candidates) > 0 {
		return candidates[0].Root, true
	}
	return "", false
}
