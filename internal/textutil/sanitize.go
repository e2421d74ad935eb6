package textutil

import (
	"path/filepath"
	"strings"
)

// SanitizeDesignName rewrites a design filename into a form that embroidery
// machine firmwares reliably display: every run of non-alphanumeric
// characters in the stem collapses to a single hyphen and the extension is
// preserved. "My Design.dst" becomes "My-Design.dst". An empty stem becomes
// "output". The function is idempotent.
func SanitizeDesignName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	var b strings.Builder
	b.Grow(len(stem))
	lastHyphen := false
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "output"
	}
	return out + ext
}
