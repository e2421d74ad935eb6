package volumes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocateDestinationPrefersSubpathMatch(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	destDir := filepath.Join(second, "EMB", "Embf")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// The first volume is discovered first but lacks the subpath; the
	// second must win regardless of order.
	candidates := []Candidate{
		{Root: first, Name: "STICK-A"},
		{Root: second, Name: "STICK-B"},
	}
	dest, ok := LocateDestination(candidates, "EMB/Embf")
	if !ok {
		t.Fatal("expected a destination")
	}
	if dest != destDir {
		t.Fatalf("unexpected destination: %q", dest)
	}
}

func TestLocateDestinationNoSubpathUsesFirstRoot(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	candidates := []Candidate{
		{Root: first, Name: "STICK-A"},
		{Root: second, Name: "STICK-B"},
	}
	dest, ok := LocateDestination(candidates, "")
	if !ok || dest != first {
		t.Fatalf("expected first root %q, got %q (ok=%v)", first, dest, ok)
	}
}

func TestLocateDestinationNoMatchIsNotAnError(t *testing.T) {
	root := t.TempDir()
	if dest, ok := LocateDestination([]Candidate{{Root: root}}, "EMB/Embf"); ok {
		t.Fatalf("expected no destination, got %q", dest)
	}
	if dest, ok := LocateDestination(nil, ""); ok {
		t.Fatalf("expected no destination for empty candidates, got %q", dest)
	}
}

func TestParseDiskutilInfo(t *testing.T) {
	output := `   Device Identifier:         disk4s1
   Device Node:               /dev/disk4s1
   Volume Name:               STITCH

   Removable Media:           Removable
   Media Type:                Generic
   Protocol:                  USB
`
	info := parseDiskutilInfo(output)
	if !info.Removable || !info.USB {
		t.Fatalf("unexpected parse result: %+v", info)
	}
}

func TestParseDiskutilInfoInternalDisk(t *testing.T) {
	output := `   Device Identifier:         disk0
   Removable Media:           Fixed
   Protocol:                  Apple Fabric
`
	info := parseDiskutilInfo(output)
	if info.Removable || info.USB {
		t.Fatalf("internal disk misclassified: %+v", info)
	}
}

func TestParseMountTable(t *testing.T) {
	table := `sysfs /sys sysfs rw,nosuid 0 0
/dev/nvme0n1p2 / ext4 rw,relatime 0 0
/dev/sdb1 /media/crafter/STITCH\040STICK vfat rw,nosuid 0 0
/dev/sdc1 /media/other/IGNORED vfat rw 0 0
`
	entries := parseMountTable(strings.NewReader(table), []string{"/media/crafter"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Device != "/dev/sdb1" {
		t.Fatalf("unexpected device: %q", entries[0].Device)
	}
	if entries[0].Point != "/media/crafter/STITCH STICK" {
		t.Fatalf("mount path escape not decoded: %q", entries[0].Point)
	}
}

func TestUnescapeMountPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{`/media/u/NO_ESCAPES`, "/media/u/NO_ESCAPES"},
		{`/media/u/A\040B`, "/media/u/A B"},
		{`/media/u/tab\011end`, "/media/u/tab\tend"},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		if got := unescapeMountPath(tt.in); got != tt.want {
			t.Errorf("unescapeMountPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
