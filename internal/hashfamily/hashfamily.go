// Package hashfamily provides deterministic, seedable 128-bit digests used
// to derive pseudo-independent hash families across the dedup pipeline
// (Bloom filter rounds, MinHash permutations, band keys).
package hashfamily

import (
	"crypto/md5"
	"encoding/binary"
)

// Digest is a 128-bit hash output.
type Digest [16]byte

// Hash computes a deterministic digest of data under hash family seedIndex.
// Family independence comes from prepending the seed's 8-byte big-endian
// encoding to the input before hashing, following the reference
// implementation's "prepend the seed" convention.
func Hash(data []byte, seedIndex int) Digest {
	var seedBuf [8]byte
	binary.BigEndian.PutUint64(seedBuf[:], uint64(seedIndex))

	h := md5.New()
	h.Write(seedBuf[:])
	h.Write(data)

	var out Digest
	h.Sum(out[:0])
	return out
}

// Uint64 reduces a digest to a single 64-bit value by XOR-folding its two
// halves.
func (d Digest) Uint64() uint64 {
	lo := binary.BigEndian.Uint64(d[:8])
	hi := binary.BigEndian.Uint64(d[8:])
	return lo ^ hi
}

// Mod reduces the digest modulo m, for use as a bit-array or bucket index.
// m must be > 0.
func (d Digest) Mod(m int) int {
	if m <= 0 {
		panic("hashfamily: Mod requires m > 0")
	}
	// A 128-bit value mod a 64-bit-ish domain: combine both halves with
	// distinct weights before reducing, so low bits of either half
	// contribute to the result.
	lo := binary.BigEndian.Uint64(d[:8])
	hi := binary.BigEndian.Uint64(d[8:])
	combined := lo ^ (hi*0x9E3779B97F4A7C15 + 1)
	return int(combined % uint64(m))
}

// Family is a cheap alternative to calling Hash per seed index: it splits a
// single base digest into two independent 64-bit halves a(x), b(x) and
// derives h_i(x) = a(x) + i*b(x), avoiding an MD5 computation per shingle
// per hash-family member. This is the double-hashing scheme called out as
// the systems-level replacement for per-index MD5 prefixing.
type Family struct {
	a, b uint64
}

// NewFamily derives the two independent bases for data.
func NewFamily(data []byte) Family {
	d := Hash(data, 0)
	a := binary.BigEndian.Uint64(d[:8])
	b := binary.BigEndian.Uint64(d[8:])
	if b == 0 {
		// A zero multiplier would collapse the family to a constant;
		// force well-mixedness by falling back to a second digest.
		d2 := Hash(data, 1)
		b = binary.BigEndian.Uint64(d2[8:]) | 1
	}
	return Family{a: a, b: b}
}

// At returns h_i(x) for the i-th member of the family.
func (f Family) At(i int) uint64 {
	return f.a + uint64(i)*f.b
}
