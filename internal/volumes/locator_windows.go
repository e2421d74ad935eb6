//go:build windows

package volumes

import (
	"context"
	"os"

	"golang.org/x/sys/windows"

	"stitchsync/internal/logging"
)

// listCandidates probes every drive letter and keeps the ones Windows
// reports as removable.
func (l *Locator) listCandidates(ctx context.Context) []Candidate {
	var out []Candidate
	for letter := 'A'; letter <= 'Z'; letter++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		root := string(letter) + `:\`
		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			l.logger.Warn("drive letter query failed; skipping",
				logging.String(logging.FieldVolume, root),
				logging.Error(err),
			)
			continue
		}
		if windows.GetDriveType(rootPtr) != windows.DRIVE_REMOVABLE {
			continue
		}
		if _, err := os.Stat(root); err != nil {
			// Removable slot with no media.
			continue
		}
		out = append(out, Candidate{Root: root, Name: "Drive (" + string(letter) + ":)"})
	}
	return out
}
