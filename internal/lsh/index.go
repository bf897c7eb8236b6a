package lsh

import (
	"fmt"
	"sort"
	"sync"

	"github.com/neardedup/neardedup/internal/minhash"
	"github.com/neardedup/neardedup/internal/shingle"
	"github.com/neardedup/neardedup/internal/unionfind"
)

// Pair is a canonical unordered candidate pair: Low < High always.
type Pair struct {
	Low, High int
}

// Config holds the geometry for an Index: shingle width, signature
// length, and band/row split. H must equal B*R exactly.
type Config struct {
	ShingleWidth int
	NumHashes    int
	NumBands     int
	RowsPerBand  int
	Probes       int
}

// Index maps band keys to the document IDs that produced them, and
// retains each document's signature for refinement and nearest-neighbor
// queries.
type Index struct {
	cfg    Config
	hasher *minhash.Hasher
	bander *Bander

	mu         sync.RWMutex
	buckets    []map[BandKey][]int // one bucket map per band
	signatures map[int]minhash.Signature
}

// NewIndex constructs an Index for the given configuration. It rejects
// configurations where NumHashes != NumBands*RowsPerBand.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.NumHashes != cfg.NumBands*cfg.RowsPerBand {
		return nil, fmt.Errorf("lsh: num_hashes (%d) must equal num_bands*rows_per_band (%d*%d=%d)",
			cfg.NumHashes, cfg.NumBands, cfg.RowsPerBand, cfg.NumBands*cfg.RowsPerBand)
	}
	if cfg.ShingleWidth <= 0 {
		return nil, fmt.Errorf("lsh: shingle_size must be positive, got %d", cfg.ShingleWidth)
	}

	bander, err := NewBander(cfg.NumBands, cfg.RowsPerBand, cfg.Probes)
	if err != nil {
		return nil, err
	}

	buckets := make([]map[BandKey][]int, cfg.NumBands)
	for i := range buckets {
		buckets[i] = make(map[BandKey][]int)
	}

	return &Index{
		cfg:        cfg,
		hasher:     minhash.New(cfg.NumHashes),
		bander:     bander,
		buckets:    buckets,
		signatures: make(map[int]minhash.Signature),
	}, nil
}

// Config returns the index's configuration.
func (idx *Index) Config() Config { return idx.cfg }

// AddDocument normalizes-free shingles the already-normalized text,
// computes its signature and band keys, and appends docID to each
// corresponding bucket. Adding the same docID twice is undefined
// behavior; callers must ensure ID uniqueness.
func (idx *Index) AddDocument(docID int, normalizedText []byte) error {
	shingles := shingle.Shingle(normalizedText, idx.cfg.ShingleWidth)
	sig := idx.hasher.Signature(shingles)
	return idx.AddSignature(docID, sig)
}

// AddSignature inserts a precomputed signature directly, bypassing
// shingling. Useful when the caller has already computed the signature
// (e.g. during parallel precomputation).
func (idx *Index) AddSignature(docID int, sig minhash.Signature) error {
	keys, err := idx.bander.Bands(sig)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.signatures[docID] = sig
	for band := 0; band < idx.cfg.NumBands; band++ {
		perBand := 1 + 2*idx.cfg.Probes
		for p := 0; p < perBand; p++ {
			key := keys[band*perBand+p]
			idx.buckets[band][key] = append(idx.buckets[band][key], docID)
		}
	}
	return nil
}

// Signature returns the retained signature for docID, if present.
func (idx *Index) Signature(docID int) (minhash.Signature, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sig, ok := idx.signatures[docID]
	return sig, ok
}

// Len returns the number of documents added.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.signatures)
}

// FindCandidates enumerates every unordered pair of distinct document IDs
// that collide in at least one bucket. Pairs are canonicalized (Low <
// High) and deduplicated across buckets.
func (idx *Index) FindCandidates() []Pair {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[Pair]struct{})
	for _, band := range idx.buckets {
		for _, ids := range band {
			if len(ids) < 2 {
				continue
			}
			// Distinct IDs within the bucket; duplicates are tolerated
			// and only affect enumeration, not correctness.
			distinct := dedupeInts(ids)
			for i := 0; i < len(distinct); i++ {
				for j := i + 1; j < len(distinct); j++ {
					seen[canonical(distinct[i], distinct[j])] = struct{}{}
				}
			}
		}
	}

	pairs := make([]Pair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Low != pairs[j].Low {
			return pairs[i].Low < pairs[j].Low
		}
		return pairs[i].High < pairs[j].High
	})
	return pairs
}

// ClusterCandidates feeds every candidate pair into a fresh Union-Find
// forest and groups every document seen in at least one pair by its root.
// Documents that never collide with any other document are not included.
func (idx *Index) ClusterCandidates() map[int][]int {
	pairs := idx.FindCandidates()

	uf := unionfind.New()
	for _, p := range pairs {
		uf.Add(p.Low)
		uf.Add(p.High)
		uf.Union(p.Low, p.High)
	}

	clusters := make(map[int][]int)
	for _, id := range uf.Members() {
		root := uf.Find(id)
		clusters[root] = append(clusters[root], id)
	}
	for root := range clusters {
		sort.Ints(clusters[root])
	}
	return clusters
}

func canonical(a, b int) Pair {
	if a < b {
		return Pair{Low: a, High: b}
	}
	return Pair{Low: b, High: a}
}

func dedupeInts(ids []int) []int {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
