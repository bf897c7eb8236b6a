// Package types defines common data structures shared across the dedup
// engine's components.
package types

// Document is an input text document keyed by insertion-order ID.
type Document struct {
	ID     int    // Assigned by insertion order, starting at 0
	Text   string // Raw, un-normalized content
	Source string // Originating file or row label, for diagnostics
}

// Cluster is a group of document IDs judged near-duplicates of each
// other, sorted ascending.
type Cluster struct {
	Root    int   // Canonical representative ID (smallest member, by convention)
	Members []int // Sorted document IDs
}

// RunSummary is the top-level output of a dedup run: which documents
// were flagged exact duplicates by the Bloom pre-filter, and the final
// clusters produced by LSH + Union-Find (optionally Jaccard-refined).
type RunSummary struct {
	TotalDocuments  int
	ExactDuplicates []int
	Clusters        []Cluster
}

// QueryMatch is one result of a nearest-neighbor Query: a document ID
// and its estimated Jaccard similarity to the query text.
type QueryMatch struct {
	DocumentID int
	Similarity float64
}

// BaselineKind names a brute-force comparator used to validate the
// approximate core pipeline.
type BaselineKind string

const (
	BaselineMD5     BaselineKind = "md5"
	BaselineNgram   BaselineKind = "ngram"
	BaselineJaccard BaselineKind = "jaccard"
	BaselineBloom   BaselineKind = "bloom"
	BaselineLSH     BaselineKind = "lsh"
	BaselineTLSH    BaselineKind = "tlsh"
)

// Mode selects which command-surface operation a run performs.
type Mode string

const (
	ModeDedup        Mode = "dedup"
	ModeSearch       Mode = "search"
	ModeBaseline     Mode = "baseline"
	ModeLSH          Mode = "lsh"
	ModeImprovedLSH  Mode = "improved_lsh"
	ModeUnionFindLSH Mode = "union_find_lsh"
)
