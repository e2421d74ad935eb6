package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"stitchsync/internal/catalog"
)

func loadRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	return reg
}

func TestRegistryFindExact(t *testing.T) {
	reg := loadRegistry(t)

	m, err := reg.Find("Brother PE800")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.Name != "Brother PE800" {
		t.Fatalf("unexpected machine: %q", m.Name)
	}
	if m.Preferred().Code != "pes" {
		t.Fatalf("unexpected preferred format: %q", m.Preferred().Code)
	}
}

func TestRegistryFindIsCaseAndPunctuationInsensitive(t *testing.T) {
	reg := loadRegistry(t)

	for _, name := range []string{"brother pe800", "BROTHER PE-800", "Brother  PE800"} {
		m, err := reg.Find(name)
		if err != nil {
			t.Fatalf("Find(%q): %v", name, err)
		}
		if m.Name != "Brother PE800" {
			t.Fatalf("Find(%q) = %q", name, m.Name)
		}
	}
}

func TestRegistryFindSynonym(t *testing.T) {
	reg := loadRegistry(t)

	m, err := reg.Find("Janome Memory Craft 9900")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.Name != "Janome MC9900" {
		t.Fatalf("unexpected machine: %q", m.Name)
	}
}

func TestRegistryFindFuzzy(t *testing.T) {
	reg := loadRegistry(t)

	// Extra tokens lower the score but keep it above the match threshold.
	m, err := reg.Find("brother pe800 embroidery")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.Name != "Brother PE800" {
		t.Fatalf("unexpected fuzzy match: %q", m.Name)
	}
}

func TestRegistryFindUnknownCarriesSuggestions(t *testing.T) {
	reg := loadRegistry(t)

	_, err := reg.Find("Janomee")
	if !errors.Is(err, catalog.ErrUnknownMachine) {
		t.Fatalf("expected ErrUnknownMachine, got %v", err)
	}
	var unknown *catalog.UnknownMachineError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownMachineError, got %T", err)
	}
}

func TestRegistryScenarioProfile(t *testing.T) {
	reg := loadRegistry(t)

	m, err := reg.Find("Janome MC9900")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := m.FormatCodes(); got[0] != "jef" || got[1] != "dst" {
		t.Fatalf("unexpected formats: %v", got)
	}
	if m.USBPath != "EMB/Embf" {
		t.Fatalf("unexpected usb path: %q", m.USBPath)
	}
	if !m.SanitizeNames {
		t.Fatal("expected sanitization on by default")
	}
	if !m.Accepts("dst") || m.Accepts("pes") {
		t.Fatal("Accepts misreports format support")
	}
}

func TestRegistrySanitizeOptOut(t *testing.T) {
	reg := loadRegistry(t)

	m, err := reg.Find("Bernina 770QE")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if m.SanitizeNames {
		t.Fatal("expected Bernina 770QE to opt out of sanitization")
	}
}

func TestRegistryMachinesSupporting(t *testing.T) {
	reg := loadRegistry(t)

	jef := reg.MachinesSupporting("jef")
	if len(jef) == 0 {
		t.Fatal("expected jef-capable machines")
	}
	for _, m := range jef {
		if !m.Accepts("jef") {
			t.Fatalf("%s does not accept jef", m.Name)
		}
	}
	if got := reg.MachinesSupporting("zzz"); len(got) != 0 {
		t.Fatalf("expected no machines for bogus format, got %d", len(got))
	}
}

func TestRegistryUniqueNormalizedNames(t *testing.T) {
	reg := loadRegistry(t)

	seen := map[string]string{}
	for _, m := range reg.Machines() {
		key := strings.ToLower(strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, m.Name))
		if prior, dup := seen[key]; dup {
			t.Fatalf("equivalent machine names: %q and %q", prior, m.Name)
		}
		seen[key] = m.Name
	}
}

func TestParseRegistryRejectsUnknownFormat(t *testing.T) {
	csv := "Machine Name,Synonyms,File Formats,USB Path,Notes,Design Size,Sanitize Names\n" +
		"Bogus 100,,doc,,,,\n"
	_, err := catalog.ParseRegistry(strings.NewReader(csv))
	if !errors.Is(err, catalog.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseRegistryRejectsMissingColumn(t *testing.T) {
	csv := "Machine Name,File Formats\nBogus 100,dst\n"
	if _, err := catalog.ParseRegistry(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing columns")
	}
}
