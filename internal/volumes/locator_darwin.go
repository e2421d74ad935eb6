//go:build darwin

package volumes

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"stitchsync/internal/logging"
)

const volumesRoot = "/Volumes"

// listCandidates enumerates /Volumes and keeps entries diskutil reports as
// removable USB media.
func (l *Locator) listCandidates(ctx context.Context) []Candidate {
	entries, err := os.ReadDir(volumesRoot)
	if err != nil {
		l.logger.Warn("cannot enumerate volumes root",
			logging.String("root", volumesRoot),
			logging.Error(err),
		)
		return nil
	}

	var out []Candidate
	for _, entry := range entries {
		mount := filepath.Join(volumesRoot, entry.Name())
		info, err := l.queryDiskutil(ctx, mount)
		if err != nil {
			// One device failing its query never fails the listing.
			l.logger.Warn("diskutil query failed; skipping volume",
				logging.String(logging.FieldVolume, mount),
				logging.Error(err),
			)
			continue
		}
		if info.Removable && info.USB {
			out = append(out, Candidate{Root: mount, Name: entry.Name()})
		}
	}
	return out
}

func (l *Locator) queryDiskutil(ctx context.Context, mount string) (diskutilInfo, error) {
	queryCtx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	output, err := exec.CommandContext(queryCtx, "diskutil", "info", mount).Output()
	if err != nil {
		return diskutilInfo{}, err
	}
	return parseDiskutilInfo(string(output)), nil
}
