package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"stitchsync/internal/logging"
	"stitchsync/internal/pipeline"
	"stitchsync/internal/session"
	"stitchsync/internal/testsupport"
	"stitchsync/internal/volumes"
)

type recordingProcessor struct {
	mu        sync.Mutex
	paths     []string
	processed chan string
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{processed: make(chan string, 16)}
}

func (p *recordingProcessor) Process(_ context.Context, path string) pipeline.Result {
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.mu.Unlock()
	p.processed <- path
	return pipeline.Result{Path: path, Disposition: pipeline.DispositionCopiedLocal}
}

type stubVolumeControl struct {
	mu       sync.Mutex
	ejected  []string
	ejectErr error
}

func (s *stubVolumeControl) Candidates(context.Context) []volumes.Candidate {
	return []volumes.Candidate{{Root: "/media/test/STICK", Name: "STICK"}}
}

func (s *stubVolumeControl) Eject(_ context.Context, candidate volumes.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ejectErr != nil {
		return s.ejectErr
	}
	s.ejected = append(s.ejected, candidate.Root)
	return nil
}

func TestSessionProcessesDetectedFiles(t *testing.T) {
	watch := t.TempDir()
	proc := newRecordingProcessor()
	keys := make(chan session.Key)

	sess, err := session.New(logging.NewNop(), watch, proc,
		session.WithLockPath(filepath.Join(t.TempDir(), "watch.lock")),
		session.WithKeyEvents(keys))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- sess.Run(context.Background()) }()

	// Give the watcher a moment to register before creating the file.
	time.Sleep(100 * time.Millisecond)
	created := testsupport.WriteDesign(t, watch, "rose.dst")

	select {
	case got := <-proc.processed:
		if got != created {
			t.Fatalf("processed %q, want %q", got, created)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("file was never processed")
	}

	keys <- session.KeyQuit
	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop on quit key")
	}
}

func TestSessionStopsOnContextCancel(t *testing.T) {
	watch := t.TempDir()
	sess, err := session.New(logging.NewNop(), watch, newRecordingProcessor(),
		session.WithLockPath(filepath.Join(t.TempDir(), "watch.lock")),
		session.WithKeyEvents(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- sess.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop on cancel")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	watch := t.TempDir()
	lockPath := filepath.Join(t.TempDir(), "watch.lock")

	first, err := session.New(logging.NewNop(), watch, newRecordingProcessor(),
		session.WithLockPath(lockPath),
		session.WithKeyEvents(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- first.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	second, err := session.New(logging.NewNop(), watch, newRecordingProcessor(),
		session.WithLockPath(lockPath),
		session.WithKeyEvents(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Run(context.Background()); !errors.Is(err, session.ErrAlreadyRunning) {
		t.Fatalf("second Run err = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	<-runDone
}

func TestEjectKeyUnmountsFirstVolume(t *testing.T) {
	watch := t.TempDir()
	vc := &stubVolumeControl{}
	keys := make(chan session.Key)

	sess, err := session.New(logging.NewNop(), watch, newRecordingProcessor(),
		session.WithLockPath(filepath.Join(t.TempDir(), "watch.lock")),
		session.WithKeyEvents(keys),
		session.WithVolumeControl(vc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- sess.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	keys <- session.KeyEject
	keys <- session.KeyQuit
	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()
	if len(vc.ejected) != 1 || vc.ejected[0] != "/media/test/STICK" {
		t.Fatalf("ejected = %v, want the first candidate", vc.ejected)
	}
}

func TestMissingWatchDirRejected(t *testing.T) {
	_, err := session.New(logging.NewNop(), filepath.Join(t.TempDir(), "absent"), newRecordingProcessor())
	if err == nil {
		t.Fatal("expected error for missing watch directory")
	}
}
