package textutil

import "testing"

func TestSanitizeDesignName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces become hyphens", "My Design.dst", "My-Design.dst"},
		{"underscores become hyphens", "rose_border.jef", "rose-border.jef"},
		{"runs collapse", "a  - _b.exp", "a-b.exp"},
		{"leading and trailing trimmed", "  flower .pes", "flower.pes"},
		{"already clean", "My-Design.dst", "My-Design.dst"},
		{"no extension", "snow flake", "snow-flake"},
		{"empty stem", "???.vp3", "output.vp3"},
		{"unicode stripped", "café über.dst", "caf-ber.dst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeDesignName(tt.in); got != tt.want {
				t.Errorf("SanitizeDesignName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeDesignNameIdempotent(t *testing.T) {
	inputs := []string{
		"My Design.dst",
		"a__b  c.jef",
		"---.pes",
		"Already-Clean.vp3",
		"no extension here",
	}
	for _, in := range inputs {
		once := SanitizeDesignName(in)
		twice := SanitizeDesignName(once)
		if once != twice {
			t.Errorf("SanitizeDesignName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
