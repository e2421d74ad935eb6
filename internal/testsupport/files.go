package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteDesign creates a file with placeholder stitch data under dir and
// returns its path.
func WriteDesign(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("stitch data\n"), 0o644); err != nil {
		t.Fatalf("write design %s: %v", name, err)
	}
	return path
}
