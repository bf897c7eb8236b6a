// Package minhash computes MinHash signatures from shingle sets such that
// the positional agreement rate between two signatures is an unbiased
// estimator of the Jaccard similarity of the underlying sets.
package minhash

import (
	"math"

	"github.com/neardedup/neardedup/internal/hashfamily"
	"github.com/neardedup/neardedup/internal/shingle"
)

// Sentinel fills signature positions for an empty shingle set. It is a
// definite maximum of the unsigned integer type, never a floating-point
// infinity, so comparisons stay over unsigned integers.
const Sentinel = math.MaxUint64

// Signature is an ordered vector of H minima, one per independent hash
// family member.
type Signature []uint64

// Hasher computes length-H MinHash signatures over shingle sets.
type Hasher struct {
	h int
}

// New creates a Hasher producing signatures of length h.
func New(h int) *Hasher {
	return &Hasher{h: h}
}

// H returns the configured signature length.
func (hs *Hasher) H() int { return hs.h }

// Signature computes the MinHash signature of shingles. Position i holds
// the minimum over all shingles s of hash_i(s). Permuting the input set
// does not change the result, since the minimum is order-independent.
// An empty shingle set yields a signature filled entirely with Sentinel.
func (hs *Hasher) Signature(shingles shingle.Set) Signature {
	sig := make(Signature, hs.h)
	for i := range sig {
		sig[i] = Sentinel
	}

	for s := range shingles {
		fam := hashfamily.NewFamily([]byte(s))
		for i := 0; i < hs.h; i++ {
			v := fam.At(i)
			if v < sig[i] {
				sig[i] = v
			}
		}
	}

	return sig
}

// EstimateJaccard returns the fraction of signature positions at which a
// and b agree, an unbiased estimator of the Jaccard similarity of their
// originating shingle sets with variance <= 1/(4H). Signatures of
// mismatched length return 0.
func EstimateJaccard(a, b Signature) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

// IsEmptySentinel reports whether sig is the all-sentinel signature
// produced for an empty shingle set. Two such signatures trivially agree
// at every position and should not be reported as duplicates unless the
// caller explicitly wants to treat empty documents as candidates.
func IsEmptySentinel(sig Signature) bool {
	for _, v := range sig {
		if v != Sentinel {
			return false
		}
	}
	return true
}
