//go:build linux

package volumes

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Eject unmounts the volume so it can be unplugged safely.
func (l *Locator) Eject(ctx context.Context, candidate Candidate) error {
	ejectCtx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	output, err := exec.CommandContext(ejectCtx, "umount", candidate.Root).CombinedOutput()
	if err != nil {
		return fmt.Errorf("unmount %s: %s: %w", candidate.Root, strings.TrimSpace(string(output)), err)
	}
	return nil
}
