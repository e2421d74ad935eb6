package session

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"stitchsync/internal/logging"
)

// Key is an interactive session command.
type Key int

const (
	// KeyQuit stops the watch session.
	KeyQuit Key = iota
	// KeyEject unmounts the active removable volume.
	KeyEject
)

// listenKeys puts the terminal into raw mode and forwards recognized
// keystrokes ('q' to quit, 'u' to eject, Ctrl-C maps to quit). When stdin
// is not a terminal no listener starts and a nil channel is returned; a
// nil channel blocks forever in select, which is the desired behavior.
// The returned restore function resets the terminal state.
func listenKeys(logger *slog.Logger) (<-chan Key, func()) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Warn("cannot enable raw terminal input, keys disabled", logging.Error(err))
		return nil, nil
	}

	keys := make(chan Key, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch buf[0] {
			case 'q', 'Q', 0x03:
				keys <- KeyQuit
				return
			case 'u', 'U':
				select {
				case keys <- KeyEject:
				default:
				}
			}
		}
	}()

	return keys, func() {
		if err := term.Restore(fd, oldState); err != nil {
			logger.Warn("failed to restore terminal state", logging.Error(err))
		}
	}
}
