package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

var errFileVanished = errors.New("pipeline: file vanished")

// maxStabilizationChecks bounds how long a continuously growing file can
// hold the pipeline, since processing is sequential.
const maxStabilizationChecks = 240

// stabilize waits until the file's size and modification time are
// unchanged across one quiescence window, so a file still being written
// is not classified early.
func (p *Pipeline) stabilize(ctx context.Context, path string) error {
	prev, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errFileVanished
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	for i := 0; i < maxStabilizationChecks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.stabilization):
		}

		cur, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errFileVanished
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if cur.Size() == prev.Size() && cur.ModTime().Equal(prev.ModTime()) {
			return nil
		}
		prev = cur
	}
	return fmt.Errorf("%s still changing after %s", path, time.Duration(maxStabilizationChecks)*p.stabilization)
}
