// Package session runs the watch loop: it owns the filesystem watcher,
// the single-instance lock, and the interactive shutdown keys, and feeds
// detected files to the pipeline one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"stitchsync/internal/logging"
	"stitchsync/internal/pipeline"
	"stitchsync/internal/volumes"
)

// ErrAlreadyRunning indicates another watch session holds the instance
// lock.
var ErrAlreadyRunning = errors.New("session: another instance is already watching")

// Processor consumes one detected file to a terminal disposition.
type Processor interface {
	Process(ctx context.Context, path string) pipeline.Result
}

// VolumeControl is the subset of the volume locator the session needs for
// the interactive eject key.
type VolumeControl interface {
	Candidates(ctx context.Context) []volumes.Candidate
	Eject(ctx context.Context, candidate volumes.Candidate) error
}

// Option adjusts Session construction.
type Option func(*Session)

// WithShutdownGrace bounds how long in-flight work may continue after a
// shutdown request.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithVolumeControl enables the interactive eject key.
func WithVolumeControl(vc VolumeControl) Option {
	return func(s *Session) {
		s.volumes = vc
	}
}

// WithLockPath overrides the instance lock file location.
func WithLockPath(path string) Option {
	return func(s *Session) {
		s.lockPath = path
	}
}

// WithKeyEvents replaces the terminal key listener with an external
// source. Used by tests; a nil channel disables keys entirely.
func WithKeyEvents(keys <-chan Key) Option {
	return func(s *Session) {
		s.keys = keys
		s.keysSet = true
	}
}

// Session watches one directory until a quit key or signal arrives.
type Session struct {
	logger    *slog.Logger
	watchDir  string
	processor Processor
	volumes   VolumeControl
	lockPath  string
	grace     time.Duration
	keys      <-chan Key
	keysSet   bool
}

// New builds a session over an existing watch directory.
func New(logger *slog.Logger, watchDir string, processor Processor, opts ...Option) (*Session, error) {
	info, err := os.Stat(watchDir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory %s is not a directory", watchDir)
	}
	if processor == nil {
		return nil, errors.New("session requires a processor")
	}

	s := &Session{
		logger:    logging.NewComponentLogger(logger, "session"),
		watchDir:  watchDir,
		processor: processor,
		grace:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lockPath == "" {
		s.lockPath, err = defaultLockPath()
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run watches until ctx is cancelled or a quit key arrives. In-flight
// work gets the shutdown grace period before it is cut off.
func (s *Session) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	held, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !held {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(s.watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.watchDir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := s.keys
	if !s.keysSet {
		var restore func()
		keys, restore = listenKeys(s.logger)
		if restore != nil {
			defer restore()
		}
	}

	// Processing outlives the shutdown request by the grace period so an
	// in-flight conversion or copy can finish.
	procCtx, procCancel := context.WithCancel(context.Background())
	defer procCancel()
	go func() {
		<-runCtx.Done()
		select {
		case <-time.After(s.grace):
		case <-procCtx.Done():
		}
		procCancel()
	}()

	work := make(chan string, 64)
	done := make(chan string, 64)
	go s.collect(runCtx, watcher, work, done)

	s.logger.Info("watching for designs", logging.String("dir", s.watchDir))
	for {
		select {
		case <-runCtx.Done():
			s.logger.Info("watch session stopped")
			return nil
		case key := <-keys:
			switch key {
			case KeyQuit:
				s.logger.Info("quit requested")
				cancel()
			case KeyEject:
				s.eject(procCtx)
			}
		case path := <-work:
			s.processor.Process(procCtx, path)
			select {
			case done <- path:
			default:
			}
		}
	}
}

// collect forwards relevant watcher events into the work channel so slow
// processing never blocks the watcher's own event delivery. Duplicate
// events for a file already queued are collapsed; the done channel clears
// a path once the worker has finished with it.
func (s *Session) collect(ctx context.Context, watcher *fsnotify.Watcher, work chan<- string, done <-chan string) {
	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-done:
			delete(pending, path)
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, queued := pending[event.Name]; queued {
				continue
			}
			select {
			case work <- event.Name:
				pending[event.Name] = struct{}{}
			default:
				s.logger.Warn("event queue full, dropping event",
					logging.String(logging.FieldFile, filepath.Base(event.Name)))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

func (s *Session) eject(ctx context.Context) {
	if s.volumes == nil {
		return
	}
	candidates := s.volumes.Candidates(ctx)
	if len(candidates) == 0 {
		s.logger.Info("no removable volume to eject")
		return
	}
	target := candidates[0]
	if err := s.volumes.Eject(ctx, target); err != nil {
		s.logger.Warn("eject failed",
			logging.String(logging.FieldVolume, target.Root),
			logging.Error(err))
		return
	}
	s.logger.Info("volume ejected", logging.String(logging.FieldVolume, target.Root))
}

func defaultLockPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "stitch-sync", "watch.lock"), nil
}
