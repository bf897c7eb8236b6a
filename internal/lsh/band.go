// Package lsh implements banded Locality Sensitive Hashing over MinHash
// signatures: splitting a signature into bands, hashing each band to a
// bucket key, and grouping documents that collide in at least one bucket
// into candidate pairs.
package lsh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/neardedup/neardedup/internal/hashfamily"
	"github.com/neardedup/neardedup/internal/minhash"
)

// BandKey identifies a bucket within a single band.
type BandKey uint64

// Bander partitions a length-H signature into B contiguous bands of R rows
// and hashes each band to a single bucket key.
type Bander struct {
	b, r   int
	probes int
}

// NewBander constructs a Bander for b bands of r rows each, with an
// optional multi-probe radius. It returns an error if b or r is not
// positive, or if probes is negative.
func NewBander(b, r, probes int) (*Bander, error) {
	if b <= 0 || r <= 0 {
		return nil, fmt.Errorf("lsh: bands and rows_per_band must be positive, got b=%d r=%d", b, r)
	}
	if probes < 0 {
		return nil, fmt.Errorf("lsh: probes must be non-negative, got %d", probes)
	}
	return &Bander{b: b, r: r, probes: probes}, nil
}

// B returns the configured band count.
func (bd *Bander) B() int { return bd.b }

// R returns the configured rows-per-band count.
func (bd *Bander) R() int { return bd.r }

// Probes returns the configured multi-probe radius.
func (bd *Bander) Probes() int { return bd.probes }

// H returns the required signature length B*R.
func (bd *Bander) H() int { return bd.b * bd.r }

// Bands partitions sig into B band keys. sig must have length B*R exactly.
// In multi-probe mode (probes > 0), each base key k additionally emits
// k+1 .. k+probes and k-1 .. k-probes, for B*(1+2*probes) keys total.
func (bd *Bander) Bands(sig minhash.Signature) ([]BandKey, error) {
	if len(sig) != bd.H() {
		return nil, fmt.Errorf("lsh: signature length %d does not match B*R=%d", len(sig), bd.H())
	}

	keys := make([]BandKey, 0, bd.b*(1+2*bd.probes))
	buf := make([]byte, 8*bd.r)
	for band := 0; band < bd.b; band++ {
		start := band * bd.r
		slice := sig[start : start+bd.r]
		for i, v := range slice {
			binary.BigEndian.PutUint64(buf[i*8:(i+1)*8], v)
		}
		base := BandKey(hashfamily.Hash(buf, band).Uint64())
		keys = append(keys, base)

		for p := 1; p <= bd.probes; p++ {
			keys = append(keys, base+BandKey(p))
			keys = append(keys, base-BandKey(p))
		}
	}
	return keys, nil
}

// Probability returns the S-curve value P(J) = 1 - (1 - J^R)^B: the
// probability that two documents of true Jaccard similarity J become a
// candidate pair in at least one band.
func Probability(j float64, b, r int) float64 {
	return 1 - math.Pow(1-math.Pow(j, float64(r)), float64(b))
}
