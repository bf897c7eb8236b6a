package minhash

import (
	"math/rand"
	"testing"

	"github.com/neardedup/neardedup/internal/shingle"
)

func TestSignatureLength(t *testing.T) {
	hs := New(50)
	sig := hs.Signature(shingle.Shingle([]byte("hello world example text"), 5))
	if len(sig) != 50 {
		t.Fatalf("expected signature length 50, got %d", len(sig))
	}
}

func TestSignatureEmptySetIsSentinel(t *testing.T) {
	hs := New(20)
	sig := hs.Signature(shingle.Set{})
	if !IsEmptySentinel(sig) {
		t.Error("expected all-sentinel signature for empty shingle set")
	}
}

func TestSignaturePermutationInvariant(t *testing.T) {
	hs := New(30)
	set := shingle.Shingle([]byte("the quick brown fox jumps"), 4)

	sig1 := hs.Signature(set)

	// Build an equivalent set via different insertion order.
	reordered := make(shingle.Set)
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys {
		reordered[k] = struct{}{}
	}

	sig2 := hs.Signature(reordered)

	for i := range sig1 {
		if sig1[i] != sig2[i] {
			t.Fatalf("signature differs at position %d after reordering input set", i)
		}
	}
}

func TestEstimateJaccardUnbiasedRoughly(t *testing.T) {
	hs := New(200)
	a := shingle.Shingle([]byte("The quick brown fox jumps over the lazy dog"), 5)
	b := shingle.Shingle([]byte("The quick brown fox jumps over the dog"), 5)

	trueJ := shingle.Jaccard(a, b)
	estJ := EstimateJaccard(hs.Signature(a), hs.Signature(b))

	if diff := trueJ - estJ; diff > 0.25 || diff < -0.25 {
		t.Errorf("estimated Jaccard %.3f too far from true Jaccard %.3f", estJ, trueJ)
	}
}

func TestEstimateJaccardMismatchedLength(t *testing.T) {
	if j := EstimateJaccard(Signature{1, 2}, Signature{1, 2, 3}); j != 0 {
		t.Errorf("expected 0 for mismatched signature lengths, got %v", j)
	}
}
