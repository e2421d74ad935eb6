package inkscape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"stitchsync/internal/catalog"
	"stitchsync/internal/logging"
	"stitchsync/internal/textutil"
)

var (
	// ErrNotAvailable indicates the toolchain probe failed and no
	// conversion was attempted.
	ErrNotAvailable = errors.New("inkscape: toolchain not available")
	// ErrConversionFailed indicates Inkscape ran but produced no usable
	// output.
	ErrConversionFailed = errors.New("inkscape: conversion failed")
	// ErrExtensionMissing indicates Inkscape rejected the job because the
	// Ink/Stitch extension could not handle it.
	ErrExtensionMissing = errors.New("inkscape: ink/stitch extension missing")
)

var commandContext = exec.CommandContext

// ConversionError carries the failed invocation's diagnostics.
type ConversionError struct {
	Input  string
	Format string
	Stderr string
	err    error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("convert %s to %s: %v: %s", filepath.Base(e.Input), e.Format, e.err, e.Stderr)
	}
	return fmt.Sprintf("convert %s to %s: %v", filepath.Base(e.Input), e.Format, e.err)
}

func (e *ConversionError) Unwrap() error { return e.err }

// Markers Inkscape writes to stderr when the extension or format handler
// is absent.
var extensionMarkers = []string{
	"extension not found",
	"unknown extension",
	"Could not detect file format",
}

const defaultTimeout = 2 * time.Minute

// Gateway invokes Inkscape for format conversions. The availability probe
// runs once, at construction.
type Gateway struct {
	logger       *slog.Logger
	availability Availability
	timeout      time.Duration
}

// Option adjusts Gateway construction.
type Option func(*Gateway)

// WithTimeout bounds each conversion subprocess.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithAvailability overrides the probe result.
func WithAvailability(a Availability) Option {
	return func(g *Gateway) {
		g.availability = a
	}
}

// NewGateway probes the toolchain and returns a converter. A gateway is
// still returned when the probe fails; Convert then reports
// ErrNotAvailable without spawning anything.
func NewGateway(logger *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		logger:       logging.NewComponentLogger(logger, "inkscape"),
		availability: Probe(),
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Availability reports the probe result the gateway was built with.
func (g *Gateway) Availability() Availability { return g.availability }

// Convert runs Inkscape to produce input in the target format. The output
// lands next to the input, named after the sanitized stem. An existing
// output file is overwritten.
func (g *Gateway) Convert(ctx context.Context, input string, format catalog.Format) (string, error) {
	if !g.availability.Usable() {
		return "", ErrNotAvailable
	}

	output := OutputPath(input, format)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := commandContext(ctx, g.availability.Path, input, "--export-filename", output)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g.logger.Info("converting design",
		logging.String(logging.FieldFile, filepath.Base(input)),
		logging.String(logging.FieldFormat, format.Code))

	start := time.Now()
	runErr := cmd.Run()
	diag := stderrExcerpt(stderr.Bytes())

	if marker := matchExtensionMarker(diag); marker != "" {
		return "", &ConversionError{Input: input, Format: format.Code, Stderr: marker, err: ErrExtensionMissing}
	}
	if runErr != nil {
		if ctx.Err() != nil {
			return "", &ConversionError{Input: input, Format: format.Code, Stderr: diag, err: ctx.Err()}
		}
		return "", &ConversionError{Input: input, Format: format.Code, Stderr: diag, err: ErrConversionFailed}
	}
	if info, err := os.Stat(output); err != nil || info.IsDir() {
		return "", &ConversionError{Input: input, Format: format.Code, Stderr: diag, err: ErrConversionFailed}
	}

	g.logger.Info("conversion complete",
		logging.String(logging.FieldFile, filepath.Base(output)),
		logging.Duration("duration", time.Since(start)))
	return output, nil
}

// OutputPath is where Convert will write input converted to format: the
// input's directory, the sanitized stem, the format's extension.
func OutputPath(input string, format catalog.Format) string {
	sanitized := textutil.SanitizeDesignName(filepath.Base(input))
	stem := strings.TrimSuffix(sanitized, filepath.Ext(sanitized))
	return filepath.Join(filepath.Dir(input), stem+"."+format.Code)
}

func matchExtensionMarker(diag string) string {
	lower := strings.ToLower(diag)
	for _, marker := range extensionMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return marker
		}
	}
	return ""
}

func stderrExcerpt(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	const limit = 400
	if len(text) > limit {
		text = text[:limit]
	}
	return text
}
