// Package pipeline drives each detected design file through
// classification, optional conversion, destination discovery, and the
// final copy. Every file is processed independently; a failure is scoped
// to the file that produced it and never stops the watch loop.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stitchsync/internal/catalog"
	"stitchsync/internal/fileutil"
	"stitchsync/internal/inkscape"
	"stitchsync/internal/logging"
	"stitchsync/internal/policy"
	"stitchsync/internal/textutil"
	"stitchsync/internal/volumes"
)

// Disposition is the terminal outcome for one file.
type Disposition string

const (
	// DispositionIgnored marks files outside the format catalog, or the
	// pipeline's own conversion artifacts.
	DispositionIgnored Disposition = "ignored"
	// DispositionCopiedLocal marks files left in the watch directory
	// because no removable destination was found.
	DispositionCopiedLocal Disposition = "copied-local"
	// DispositionCopiedRemote marks files copied onto a removable volume.
	DispositionCopiedRemote Disposition = "copied-remote"
	// DispositionFailed marks files dropped after a conversion or copy
	// error.
	DispositionFailed Disposition = "failed"
)

// Result records what happened to one detected file.
type Result struct {
	// EventID correlates the log lines emitted for this file.
	EventID string
	// Path is the detected file.
	Path string
	// Output is the file the pipeline ended up with, converted or not.
	// Empty for ignored and failed files.
	Output string
	// Destination is the remote copy target, set only for copied-remote.
	Destination string
	Disposition Disposition
	// Err is set for failed files.
	Err error
}

// Converter is the conversion surface the pipeline depends on.
type Converter interface {
	Convert(ctx context.Context, input string, format catalog.Format) (string, error)
}

// VolumeSource enumerates removable copy destinations. Candidates are
// requested fresh for every copy attempt since media is hot-pluggable.
type VolumeSource interface {
	Candidates(ctx context.Context) []volumes.Candidate
}

// Option adjusts Pipeline construction.
type Option func(*Pipeline)

// WithStabilization sets the quiescence window a file's size and mtime
// must hold before classification.
func WithStabilization(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.stabilization = d
		}
	}
}

// Pipeline processes detected files sequentially in arrival order. It is
// not safe for concurrent Process calls.
type Pipeline struct {
	logger        *slog.Logger
	policy        *policy.Resolved
	converter     Converter
	volumes       VolumeSource
	stabilization time.Duration

	warnOnce sync.Once

	// Conversion outputs land in the watch directory and come back around
	// as new events; they are remembered here and ignored once.
	mu       sync.Mutex
	produced map[string]struct{}
}

// New builds a pipeline bound to a session policy.
func New(logger *slog.Logger, resolved *policy.Resolved, converter Converter, source VolumeSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:        logging.NewComponentLogger(logger, "pipeline"),
		policy:        resolved,
		converter:     converter,
		volumes:       source,
		stabilization: 500 * time.Millisecond,
		produced:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one detected file to a terminal disposition. It never
// returns an error; failures are recorded on the Result and logged.
func (p *Pipeline) Process(ctx context.Context, path string) Result {
	result := Result{
		EventID: uuid.NewString(),
		Path:    path,
	}
	logger := p.logger.With(
		logging.String(logging.FieldEvent, result.EventID),
		logging.String(logging.FieldFile, filepath.Base(path)))

	if p.claimProduced(path) {
		logger.Debug("skipping own conversion artifact")
		result.Disposition = DispositionIgnored
		return result
	}

	format, known := p.classifyExtension(path)
	if !known {
		logger.Debug("extension outside format catalog, ignoring")
		result.Disposition = DispositionIgnored
		return result
	}

	if err := p.stabilize(ctx, path); err != nil {
		if errors.Is(err, errFileVanished) {
			logger.Debug("file removed before it settled")
			result.Disposition = DispositionIgnored
			return result
		}
		return p.fail(logger, result, err)
	}

	// A file already in the preferred format never converts, even when the
	// preferred format sits outside the accepted set; conversion would
	// target the file's own path.
	output := path
	if format.Code != p.policy.Preferred.Code && !p.policy.Accepts(format.Code) {
		converted, err := p.convert(ctx, path)
		if err != nil {
			return p.fail(logger, result, err)
		}
		output = converted
	}
	result.Output = output

	return p.deliver(ctx, logger, result)
}

func (p *Pipeline) classifyExtension(path string) (catalog.Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	format, err := catalog.LookupFormat(ext)
	if err != nil {
		return catalog.Format{}, false
	}
	return format, true
}

func (p *Pipeline) convert(ctx context.Context, path string) (string, error) {
	converted, err := p.converter.Convert(ctx, path, p.policy.Preferred)
	if err == nil {
		p.markProduced(converted)
		return converted, nil
	}
	if errors.Is(err, inkscape.ErrNotAvailable) {
		p.warnOnce.Do(func() {
			p.logger.Warn("conversion toolchain unavailable, copying files unconverted",
				logging.String(logging.FieldFormat, p.policy.Preferred.Code))
		})
		return path, nil
	}
	return "", err
}

func (p *Pipeline) deliver(ctx context.Context, logger *slog.Logger, result Result) Result {
	subpath := ""
	sanitize := true
	if p.policy.Machine != nil {
		subpath = p.policy.Machine.USBPath
		sanitize = p.policy.Machine.SanitizeNames
	}

	candidates := p.volumes.Candidates(ctx)
	dest, found := volumes.LocateDestination(candidates, subpath)
	if !found {
		logger.Info("no removable destination, leaving file in place",
			logging.String(logging.FieldFile, filepath.Base(result.Output)))
		result.Disposition = DispositionCopiedLocal
		return result
	}

	name := filepath.Base(result.Output)
	if sanitize {
		name = textutil.SanitizeDesignName(name)
	}
	target := filepath.Join(dest, name)
	if err := fileutil.CopyFile(result.Output, target); err != nil {
		return p.fail(logger, result, err)
	}

	logger.Info("copied design to removable volume",
		logging.String(logging.FieldVolume, dest),
		logging.String(logging.FieldFile, name))
	result.Destination = target
	result.Disposition = DispositionCopiedRemote
	return result
}

func (p *Pipeline) fail(logger *slog.Logger, result Result, err error) Result {
	logger.Error("processing failed", logging.Error(err))
	result.Disposition = DispositionFailed
	result.Err = err
	return result
}

func (p *Pipeline) markProduced(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.produced[path] = struct{}{}
}

func (p *Pipeline) claimProduced(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.produced[path]; ok {
		delete(p.produced, path)
		return true
	}
	return false
}
