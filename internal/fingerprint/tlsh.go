// Package fingerprint provides a TLSH-based structural fuzzy hash, used by
// the tlsh baseline comparator for tuning experiments. The MinHash/LSH
// dedup pipeline does not use it.
package fingerprint

import (
	"errors"

	"github.com/glaslos/tlsh"
)

// Config holds tunables for TLSH fingerprinting.
type Config struct {
	// MinDataSize is the minimum content size required for a meaningful
	// TLSH hash; TLSH needs at least 50 bytes of input.
	MinDataSize int

	// SimilarityThreshold is the maximum distance for two documents to be
	// considered near-duplicates (typical: 30-100, lower = stricter).
	SimilarityThreshold int
}

// DefaultConfig returns sensible defaults for document fingerprinting.
func DefaultConfig() *Config {
	return &Config{
		MinDataSize:         50,
		SimilarityThreshold: 100,
	}
}

// Hash wraps a computed TLSH digest.
type Hash struct {
	h   *tlsh.TLSH
	raw string
}

// String returns the hash's canonical hex representation.
func (h *Hash) String() string {
	if h == nil || h.h == nil {
		return ""
	}
	return h.raw
}

// ErrTooSmall is returned when content is too short for TLSH to hash
// meaningfully.
var ErrTooSmall = errors.New("fingerprint: content too small for TLSH computation")

// Compute hashes content under cfg. Documents shorter than
// cfg.MinDataSize return ErrTooSmall — callers should fall back to the
// MinHash/LSH path for short documents, since TLSH is not meaningful
// below its minimum window.
func Compute(content []byte, cfg *Config) (*Hash, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(content) < cfg.MinDataSize {
		return nil, ErrTooSmall
	}
	h, err := tlsh.HashBytes(content)
	if err != nil {
		return nil, err
	}
	return &Hash{h: h, raw: h.String()}, nil
}

// Distance returns the TLSH distance between two hashes (0 = identical,
// larger = more different; unbounded above, typically under a few
// hundred for documents of a few KB).
func Distance(a, b *Hash) int {
	if a == nil || b == nil || a.h == nil || b.h == nil {
		return -1
	}
	return a.h.Diff(b.h)
}

// IsNearDuplicate reports whether a and b fall within cfg's similarity
// threshold.
func IsNearDuplicate(a, b *Hash, cfg *Config) bool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := Distance(a, b)
	return d >= 0 && d <= cfg.SimilarityThreshold
}
