// Package bloom implements a fixed-size probabilistic membership filter
// used as a fast exact-duplicate pre-screen ahead of the MinHash/LSH stage.
package bloom

import (
	"fmt"
	"math"

	"github.com/neardedup/neardedup/internal/hashfamily"
)

// Filter is a bit-array Bloom filter sized for a target capacity and
// false-positive rate. It never returns a false negative.
type Filter struct {
	m     int
	k     int
	bits  []uint8
	count int
}

// New allocates a Filter for capacity n items at target false-positive
// rate f. It fails at construction if n <= 0 or f is outside (0, 1).
func New(n int, f float64) (*Filter, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bloom: capacity n must be positive, got %d", n)
	}
	if f <= 0 || f >= 1 {
		return nil, fmt.Errorf("bloom: false-positive rate f must be in (0,1), got %v", f)
	}

	m := CalculateSize(n, f)
	k := CalculateHashCount(m, n)

	return &Filter{
		m:    m,
		k:    k,
		bits: make([]uint8, (m+7)/8),
	}, nil
}

// CalculateSize returns the number of bits m = ceil(-n*ln(f) / (ln 2)^2).
func CalculateSize(n int, f float64) int {
	m := -float64(n) * math.Log(f) / (math.Ln2 * math.Ln2)
	return int(math.Ceil(m))
}

// CalculateHashCount returns the number of hash rounds k = ceil((m/n) * ln 2).
func CalculateHashCount(m, n int) int {
	k := (float64(m) / float64(n)) * math.Ln2
	return int(math.Ceil(k))
}

// M returns the size of the bit array, in bits.
func (fl *Filter) M() int { return fl.m }

// K returns the number of hash rounds.
func (fl *Filter) K() int { return fl.k }

// Add inserts item into the filter.
func (fl *Filter) Add(item []byte) {
	for i := 0; i < fl.k; i++ {
		idx := hashfamily.Hash(item, i).Mod(fl.m)
		fl.setBit(idx)
	}
	fl.count++
}

// Contains reports whether item may have been added. False positives are
// possible and bounded by the configured rate; false negatives never occur.
func (fl *Filter) Contains(item []byte) bool {
	for i := 0; i < fl.k; i++ {
		idx := hashfamily.Hash(item, i).Mod(fl.m)
		if !fl.getBit(idx) {
			return false
		}
	}
	return true
}

// Count returns the number of items added so far (not deduplicated; a
// caller that Adds the same item twice counts it twice).
func (fl *Filter) Count() int { return fl.count }

// Load returns the fraction of set bits, a proxy for how close the filter
// is to its designed capacity.
func (fl *Filter) Load() float64 {
	set := 0
	for _, b := range fl.bits {
		set += popcount(b)
	}
	return float64(set) / float64(fl.m)
}

func (fl *Filter) setBit(i int) {
	fl.bits[i/8] |= 1 << uint(i%8)
}

func (fl *Filter) getBit(i int) bool {
	return fl.bits[i/8]&(1<<uint(i%8)) != 0
}

func popcount(b uint8) int {
	n := 0
	for b != 0 {
		n++
		b &= b - 1
	}
	return n
}

// CountingFilter replaces each bit with a saturating 4-bit counter, which
// allows Remove in addition to Add/Contains. Counters saturate at 15 and
// never decrement below zero.
type CountingFilter struct {
	m       int
	k       int
	counts  []uint8 // two 4-bit counters packed per byte
	maxCnt  uint8
	count   int
}

const countingFilterMax uint8 = 15

// NewCounting allocates a CountingFilter for capacity n at false-positive
// rate f, using the same m/k sizing as Filter.
func NewCounting(n int, f float64) (*CountingFilter, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bloom: capacity n must be positive, got %d", n)
	}
	if f <= 0 || f >= 1 {
		return nil, fmt.Errorf("bloom: false-positive rate f must be in (0,1), got %v", f)
	}

	m := CalculateSize(n, f)
	k := CalculateHashCount(m, n)

	return &CountingFilter{
		m:      m,
		k:      k,
		counts: make([]uint8, (m+1)/2),
		maxCnt: countingFilterMax,
	}, nil
}

// M returns the size of the counter array, in slots.
func (cf *CountingFilter) M() int { return cf.m }

// K returns the number of hash rounds.
func (cf *CountingFilter) K() int { return cf.k }

// Add increments the k counters for item, saturating at 15.
func (cf *CountingFilter) Add(item []byte) {
	for i := 0; i < cf.k; i++ {
		idx := hashfamily.Hash(item, i).Mod(cf.m)
		cf.increment(idx)
	}
	cf.count++
}

// Remove decrements the k counters for item, never below zero. Removing an
// item that was never added (or removing it more times than it was added)
// is a caller error that silently stops at zero rather than panicking,
// matching the reference implementation's behavior.
func (cf *CountingFilter) Remove(item []byte) {
	for i := 0; i < cf.k; i++ {
		idx := hashfamily.Hash(item, i).Mod(cf.m)
		cf.decrement(idx)
	}
	if cf.count > 0 {
		cf.count--
	}
}

// Contains reports whether item may have been added.
func (cf *CountingFilter) Contains(item []byte) bool {
	for i := 0; i < cf.k; i++ {
		idx := hashfamily.Hash(item, i).Mod(cf.m)
		if cf.get(idx) == 0 {
			return false
		}
	}
	return true
}

func (cf *CountingFilter) get(i int) uint8 {
	b := cf.counts[i/2]
	if i%2 == 0 {
		return b & 0x0F
	}
	return (b >> 4) & 0x0F
}

func (cf *CountingFilter) increment(i int) {
	cur := cf.get(i)
	if cur >= cf.maxCnt {
		return
	}
	cf.set(i, cur+1)
}

func (cf *CountingFilter) decrement(i int) {
	cur := cf.get(i)
	if cur == 0 {
		return
	}
	cf.set(i, cur-1)
}

func (cf *CountingFilter) set(i int, v uint8) {
	bi := i / 2
	if i%2 == 0 {
		cf.counts[bi] = (cf.counts[bi] & 0xF0) | (v & 0x0F)
	} else {
		cf.counts[bi] = (cf.counts[bi] & 0x0F) | ((v & 0x0F) << 4)
	}
}
