package textutil

// CosineSimilarity returns the cosine of the angle between two fingerprints,
// in [0, 1]. Nil or empty fingerprints score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a.terms, b.terms
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot float64
	for term, weight := range small {
		if w, ok := large[term]; ok {
			dot += weight * w
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
