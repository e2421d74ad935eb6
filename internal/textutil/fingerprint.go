package textutil

import (
	"math"
	"strings"
)

// Fingerprint is a term-frequency vector over a name's tokens, used to
// score how alike two machine names are.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. Text with no usable
// tokens yields nil, which compares as similarity zero to everything.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		terms[token]++
	}
	var sum float64
	for _, weight := range terms {
		sum += weight * weight
	}
	return &Fingerprint{terms: terms, norm: math.Sqrt(sum)}
}

// Tokenize splits text into lowercase alphanumeric tokens. Single
// characters are dropped; model tokens like "mc" and "9900" survive.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() >= 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}
