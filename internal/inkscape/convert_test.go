package inkscape_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"stitchsync/internal/catalog"
	"stitchsync/internal/inkscape"
	"stitchsync/internal/logging"
	"stitchsync/internal/testsupport"
)

func mustFormat(t *testing.T, code string) catalog.Format {
	t.Helper()
	format, err := catalog.LookupFormat(code)
	if err != nil {
		t.Fatalf("LookupFormat(%q): %v", code, err)
	}
	return format
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}
}

func TestProbeFindsStubbedInkscapeOnPath(t *testing.T) {
	requireShell(t)
	testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	avail := inkscape.Probe()
	if avail.Path == "" {
		t.Fatal("expected probe to find the stubbed inkscape binary")
	}
}

func TestConvertWritesSanitizedOutput(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	input := testsupport.WriteDesign(t, dir, "My Design.pes")

	// The stub mimics inkscape's --export-filename contract.
	stub := testsupport.StubBinary(t, "inkscape", `echo converted > "$3"`)
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{
		Path:         stub,
		HasExtension: true,
	}))

	output, err := gateway.Convert(context.Background(), input, mustFormat(t, "dst"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := filepath.Join(dir, "My-Design.dst")
	if output != want {
		t.Fatalf("output = %q, want %q", output, want)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestConvertNotAvailable(t *testing.T) {
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{}))

	_, err := gateway.Convert(context.Background(), "design.pes", mustFormat(t, "dst"))
	if !errors.Is(err, inkscape.ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}
}

func TestConvertMissingExtensionDoesNotSpawn(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	stub := testsupport.StubBinary(t, "inkscape", `touch `+marker)
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{
		Path:         stub,
		HasExtension: false,
	}))

	if _, err := gateway.Convert(context.Background(), "design.pes", mustFormat(t, "dst")); !errors.Is(err, inkscape.ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("stub executed despite missing extension")
	}
}

func TestConvertFailureReportsStderr(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	input := testsupport.WriteDesign(t, dir, "broken.pes")

	stub := testsupport.StubBinary(t, "inkscape", `echo "stitch plan exploded" >&2; exit 1`)
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{
		Path:         stub,
		HasExtension: true,
	}))

	_, err := gateway.Convert(context.Background(), input, mustFormat(t, "dst"))
	if !errors.Is(err, inkscape.ErrConversionFailed) {
		t.Fatalf("err = %v, want ErrConversionFailed", err)
	}
	var convErr *inkscape.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %T, want *ConversionError", err)
	}
	if convErr.Stderr == "" {
		t.Fatal("expected stderr excerpt in error")
	}
}

func TestConvertMissingOutputFails(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	input := testsupport.WriteDesign(t, dir, "silent.pes")

	stub := testsupport.StubBinary(t, "inkscape", `exit 0`)
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{
		Path:         stub,
		HasExtension: true,
	}))

	if _, err := gateway.Convert(context.Background(), input, mustFormat(t, "dst")); !errors.Is(err, inkscape.ErrConversionFailed) {
		t.Fatalf("err = %v, want ErrConversionFailed", err)
	}
}

func TestConvertDetectsExtensionMarker(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	input := testsupport.WriteDesign(t, dir, "design.pes")

	stub := testsupport.StubBinary(t, "inkscape", `echo "Could not detect file format" >&2; exit 1`)
	gateway := inkscape.NewGateway(logging.NewNop(), inkscape.WithAvailability(inkscape.Availability{
		Path:         stub,
		HasExtension: true,
	}))

	_, err := gateway.Convert(context.Background(), input, mustFormat(t, "dst"))
	if !errors.Is(err, inkscape.ErrExtensionMissing) {
		t.Fatalf("err = %v, want ErrExtensionMissing", err)
	}
}

func TestConvertHonorsTimeout(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	input := testsupport.WriteDesign(t, dir, "slow.pes")

	stub := testsupport.StubBinary(t, "inkscape", `sleep 5`)
	gateway := inkscape.NewGateway(logging.NewNop(),
		inkscape.WithTimeout(50*time.Millisecond),
		inkscape.WithAvailability(inkscape.Availability{Path: stub, HasExtension: true}))

	_, err := gateway.Convert(context.Background(), input, mustFormat(t, "dst"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestOutputPathCollapsesStem(t *testing.T) {
	got := inkscape.OutputPath(filepath.Join("in", "flower   garden!.svg"), mustFormat(t, "jef"))
	want := filepath.Join("in", "flower-garden.jef")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}
}
