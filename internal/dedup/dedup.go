// Package dedup orchestrates the full collection pipeline: Bloom-based
// exact-duplicate pre-screening, text normalization, LSH candidate
// enumeration, Union-Find clustering, and optional Jaccard refinement.
package dedup

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/neardedup/neardedup/internal/bloom"
	"github.com/neardedup/neardedup/internal/lsh"
	"github.com/neardedup/neardedup/internal/minhash"
	"github.com/neardedup/neardedup/internal/pipeline"
	"github.com/neardedup/neardedup/internal/shingle"
	"github.com/neardedup/neardedup/internal/unionfind"
)

// Config holds every tunable for a Deduplicator run.
type Config struct {
	// ShingleWidth is the character-window width fed to the shingler.
	ShingleWidth int
	// NumHashes is the MinHash signature length H; must equal
	// NumBands*RowsPerBand.
	NumHashes   int
	NumBands    int
	RowsPerBand int
	Probes      int

	// BloomCapacity and BloomFalsePositiveRate size the exact-dedup
	// pre-filter.
	BloomCapacity          int
	BloomFalsePositiveRate float64

	// RefineJaccard enables the optional post-clustering Jaccard pruning
	// pass. Disabled by default, matching the advisory-only precision
	// step.
	RefineJaccard bool
	// RefineThreshold is the minimum signature-Jaccard required for two
	// documents in a raw cluster to remain joined during refinement.
	RefineThreshold float64

	// IncludeSingletons controls whether clusters of size 1 appear in
	// Clusters' output.
	IncludeSingletons bool
}

// DefaultConfig returns the spec's default geometry: B=10, R=5, H=50,
// shingle width 5, no multi-probe, refinement disabled at threshold 0.7.
func DefaultConfig() Config {
	return Config{
		ShingleWidth:           5,
		NumHashes:              50,
		NumBands:               10,
		RowsPerBand:            5,
		Probes:                 0,
		BloomCapacity:          10000,
		BloomFalsePositiveRate: 0.01,
		RefineJaccard:          false,
		RefineThreshold:        0.7,
		IncludeSingletons:      false,
	}
}

// Result is the output of a Run: documents flagged as exact duplicates by
// the Bloom pre-filter, and the final list of clusters (each a sorted
// list of document IDs).
type Result struct {
	ExactDuplicates []int
	Clusters        [][]int
}

// Deduplicator ties together the Bloom pre-filter, the LSH index, and
// Union-Find clustering into a single collection-level pipeline.
type Deduplicator struct {
	cfg    Config
	filter *bloom.Filter
	index  *lsh.Index
}

var nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)

// New constructs a Deduplicator. It returns an error if cfg's geometry is
// invalid (H != B*R) or Bloom parameters are out of range — the same
// configuration errors LSHIndex and BloomFilter would raise, surfaced
// before any document is processed.
func New(cfg Config) (*Deduplicator, error) {
	filter, err := bloom.New(cfg.BloomCapacity, cfg.BloomFalsePositiveRate)
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}

	index, err := lsh.NewIndex(lsh.Config{
		ShingleWidth: cfg.ShingleWidth,
		NumHashes:    cfg.NumHashes,
		NumBands:     cfg.NumBands,
		RowsPerBand:  cfg.RowsPerBand,
		Probes:       cfg.Probes,
	})
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}

	return &Deduplicator{cfg: cfg, filter: filter, index: index}, nil
}

// Normalize lowercases text and strips every character outside the
// word/whitespace class, the exact normalization the Deduplicator applies
// before shingling.
func Normalize(text string) string {
	return nonWordOrSpace.ReplaceAllString(strings.ToLower(text), "")
}

// cleanedDigestKey returns the trimmed, lowercased form used for the
// exact-dedup digest — distinct from Normalize, which additionally strips
// punctuation before shingling.
func cleanedDigestKey(text string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(text)))
}

// Run processes docs in insertion order, assigning IDs 0..len(docs)-1.
// Each document runs through the exact-dedup pre-filter (still kept in
// the pipeline as its own ID so clusters reflect every input position)
// and is normalized. Shingling and MinHash signing — the embarrassingly
// parallel per-document stage — run concurrently over a bounded pool,
// then signatures are inserted into the LSH index in ID order so bucket
// contents stay deterministic. Candidate pairs are then clustered via
// Union-Find, with optional Jaccard refinement.
func (d *Deduplicator) Run(docs []string) (*Result, error) {
	var exact []int
	jobs := make([]pipeline.SignatureJob, len(docs))

	for id, doc := range docs {
		key := cleanedDigestKey(doc)
		if d.filter.Contains(key) {
			exact = append(exact, id)
		} else {
			d.filter.Add(key)
		}

		jobs[id] = pipeline.SignatureJob{ID: id, NormalizedText: []byte(Normalize(doc))}
	}

	results, err := pipeline.ComputeSignatures(jobs, d.cfg.ShingleWidth, d.cfg.NumHashes, pipeline.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}

	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("dedup: document %d: %w", r.ID, r.Err)
		}
		if err := d.index.AddSignature(r.ID, r.Sig); err != nil {
			return nil, fmt.Errorf("dedup: document %d: %w", r.ID, err)
		}
	}

	rawClusters := d.index.ClusterCandidates()

	var clusters [][]int
	if d.cfg.RefineJaccard {
		clusters = d.refine(rawClusters)
	} else {
		for _, members := range rawClusters {
			clusters = append(clusters, members)
		}
	}

	if d.cfg.IncludeSingletons {
		clustered := make(map[int]struct{})
		for _, c := range clusters {
			for _, id := range c {
				clustered[id] = struct{}{}
			}
		}
		for id := range docs {
			if _, ok := clustered[id]; !ok {
				clusters = append(clusters, []int{id})
			}
		}
	} else {
		multi := clusters[:0]
		for _, c := range clusters {
			if len(c) > 1 {
				multi = append(multi, c)
			}
		}
		clusters = multi
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})

	return &Result{ExactDuplicates: exact, Clusters: clusters}, nil
}

// refine recomputes pairwise signature-Jaccard within each raw cluster,
// drops edges below cfg.RefineThreshold, and re-clusters the surviving
// edges with a fresh Union-Find. Documents left with no surviving edge
// become their own singleton cluster.
func (d *Deduplicator) refine(raw map[int][]int) [][]int {
	var out [][]int

	for _, members := range raw {
		uf := unionfind.New()
		for _, id := range members {
			uf.Add(id)
		}

		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				sigA, _ := d.index.Signature(members[i])
				sigB, _ := d.index.Signature(members[j])
				if minhash.EstimateJaccard(sigA, sigB) >= d.cfg.RefineThreshold {
					uf.Union(members[i], members[j])
				}
			}
		}

		grouped := make(map[int][]int)
		for _, id := range members {
			root := uf.Find(id)
			grouped[root] = append(grouped[root], id)
		}
		for _, g := range grouped {
			sort.Ints(g)
			out = append(out, g)
		}
	}

	return out
}

// BuildIndex stores signatures for every document in docs, keyed by
// insertion-order ID, for later nearest-neighbor Query calls. It does not
// run the exact-dedup pre-filter or clustering.
func (d *Deduplicator) BuildIndex(docs []string) error {
	for id, doc := range docs {
		normalized := Normalize(doc)
		if err := d.index.AddDocument(id, []byte(normalized)); err != nil {
			return fmt.Errorf("dedup: document %d: %w", id, err)
		}
	}
	return nil
}

// Query computes text's signature and returns the IDs of every
// previously indexed document whose signature-Jaccard with it is at
// least threshold, sorted ascending.
func (d *Deduplicator) Query(text string, threshold float64) []int {
	normalized := Normalize(text)
	shingles := shingle.Shingle([]byte(normalized), d.cfg.ShingleWidth)
	hasher := minhash.New(d.cfg.NumHashes)
	querySig := hasher.Signature(shingles)

	var matches []int
	for id := 0; id < d.index.Len(); id++ {
		sig, ok := d.index.Signature(id)
		if !ok {
			continue
		}
		if minhash.EstimateJaccard(querySig, sig) >= threshold {
			matches = append(matches, id)
		}
	}
	sort.Ints(matches)
	return matches
}

// Index exposes the underlying LSH index for callers that need direct
// access (e.g. reporting signature stats).
func (d *Deduplicator) Index() *lsh.Index { return d.index }

// Filter exposes the underlying Bloom filter for callers that need load
// or sizing diagnostics.
func (d *Deduplicator) Filter() *bloom.Filter { return d.filter }
