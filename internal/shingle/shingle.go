// Package shingle turns a document's byte content into the set of
// fixed-width character substrings (shingles) used to estimate Jaccard
// similarity downstream. It performs no text normalization itself; the
// caller (the dedup orchestrator) is responsible for lowercasing and
// punctuation stripping before shingles are extracted.
package shingle

// Set is an unordered collection of distinct shingles.
type Set map[string]struct{}

// Shingle extracts the set of overlapping, fixed-width character windows of
// length k from doc. Documents shorter than k produce an empty set.
func Shingle(doc []byte, k int) Set {
	set := make(Set)
	if k <= 0 || len(doc) < k {
		return set
	}
	for i := 0; i+k <= len(doc); i++ {
		set[string(doc[i:i+k])] = struct{}{}
	}
	return set
}

// Len returns the number of distinct shingles.
func (s Set) Len() int { return len(s) }

// Jaccard computes the Jaccard similarity |A∩B|/|A∪B| between two shingle
// sets, returning 0 when both sets are empty.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	intersection := 0
	for s := range small {
		if _, ok := large[s]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
