//go:build darwin

package volumes

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Eject unmounts and ejects the volume so it can be unplugged safely.
func (l *Locator) Eject(ctx context.Context, candidate Candidate) error {
	ejectCtx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	output, err := exec.CommandContext(ejectCtx, "diskutil", "eject", candidate.Root).CombinedOutput()
	if err != nil {
		return fmt.Errorf("eject %s: %s: %w", candidate.Root, strings.TrimSpace(string(output)), err)
	}
	return nil
}
