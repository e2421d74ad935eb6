//go:build windows

package volumes

import (
	"context"
	"errors"
)

// Eject is not supported on Windows; use the system tray "safely remove
// hardware" flow instead.
func (l *Locator) Eject(ctx context.Context, candidate Candidate) error {
	return errors.New("eject is not supported on windows")
}
