// Package baseline implements the brute-force comparison algorithms used
// to validate the Bloom/MinHash/LSH/Union-Find core: exact MD5 listing,
// n-gram set-overlap clustering, pairwise Jaccard clustering, a
// standalone Bloom pre-filter comparator, and a TLSH structural-hash
// comparator. These are O(N) to O(N^2) reference implementations, not
// part of the core pipeline, kept around strictly so the core's
// approximate output can be checked against ground truth on small
// collections.
package baseline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/neardedup/neardedup/internal/bloom"
	"github.com/neardedup/neardedup/internal/fingerprint"
)

// MD5 computes the hex digest of a document's trimmed, lowercased form.
func MD5(doc string) string {
	cleaned := strings.ToLower(strings.TrimSpace(doc))
	sum := md5.Sum([]byte(cleaned))
	return hex.EncodeToString(sum[:])
}

// FindExactDuplicates clusters document indices by identical MD5 digest
// of their cleaned content. Every document appears in exactly one
// cluster, including singletons.
func FindExactDuplicates(docs []string) [][]int {
	seen := make(map[string][]int)
	order := make([]string, 0)
	for idx, doc := range docs {
		h := MD5(doc)
		if _, ok := seen[h]; !ok {
			order = append(order, h)
		}
		seen[h] = append(seen[h], idx)
	}

	clusters := make([][]int, 0, len(order))
	for _, h := range order {
		clusters = append(clusters, seen[h])
	}
	return clusters
}

// FindBloomDuplicates runs the same Bloom pre-filter test-and-add
// sequence dedup.Deduplicator's exact-duplicate pass runs (see dedup.Run),
// standalone from the full LSH pipeline. Clusters are keyed by each
// document's exact cleaned text, so the result equals exact grouping: a
// filter false positive starts its own cluster and does not show in the
// output.
func FindBloomDuplicates(docs []string, capacity int, falsePositiveRate float64) ([][]int, error) {
	filter, err := bloom.New(capacity, falsePositiveRate)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	seen := make(map[string][]int)
	order := make([]string, 0)
	for idx, doc := range docs {
		key := []byte(strings.ToLower(strings.TrimSpace(doc)))
		digest := string(key)

		if filter.Contains(key) {
			if _, ok := seen[digest]; !ok {
				order = append(order, digest)
			}
		} else {
			filter.Add(key)
			order = append(order, digest)
		}
		seen[digest] = append(seen[digest], idx)
	}

	clusters := make([][]int, 0, len(order))
	for _, d := range order {
		clusters = append(clusters, seen[d])
	}
	return clusters, nil
}

// FindTLSHDuplicates greedily clusters documents by TLSH structural-hash
// distance against each cluster's representative member, the same
// greedy-against-representative scheme FindJaccardDuplicates uses.
// Documents too short for a meaningful TLSH hash (see
// fingerprint.ErrTooSmall) are skipped entirely, matching
// FindNgramDuplicates' handling of undersized documents.
func FindTLSHDuplicates(docs []string, cfg *fingerprint.Config) ([][]int, error) {
	type clusterEntry struct {
		repHash *fingerprint.Hash
		members []int
	}
	var clusters []*clusterEntry

	for i, doc := range docs {
		h, err := fingerprint.Compute([]byte(doc), cfg)
		if err != nil {
			if err == fingerprint.ErrTooSmall {
				continue
			}
			return nil, fmt.Errorf("baseline: document %d: %w", i, err)
		}

		matched := false
		for _, c := range clusters {
			if fingerprint.IsNearDuplicate(h, c.repHash, cfg) {
				c.members = append(c.members, i)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &clusterEntry{repHash: h, members: []int{i}})
		}
	}

	out := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.members)
	}
	return out, nil
}

// ngramSet tokenizes a document on whitespace and returns the set of
// contiguous n-length token tuples (joined with a separator unlikely to
// appear in normalized text).
func ngramSet(doc string, n int) map[string]struct{} {
	tokens := strings.Fields(doc)
	if len(tokens) < n {
		return nil
	}
	set := make(map[string]struct{}, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], "\x1f")] = struct{}{}
	}
	return set
}

func setJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// FindNgramDuplicates greedily clusters documents by n-gram set overlap:
// each document joins the first existing cluster whose representative
// exceeds the similarity threshold, or starts a new cluster otherwise.
// Documents with fewer than n tokens are skipped entirely (they never
// join or start a cluster), matching the reference behavior.
func FindNgramDuplicates(docs []string, n int, threshold float64) [][]int {
	type clusterEntry struct {
		repID   int
		set     map[string]struct{}
		members []int
	}
	var clusters []*clusterEntry

	for docID, doc := range docs {
		set := ngramSet(doc, n)
		if set == nil {
			continue
		}

		matched := false
		for _, c := range clusters {
			if setJaccard(set, c.set) >= threshold {
				c.members = append(c.members, docID)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &clusterEntry{repID: docID, set: set, members: []int{docID}})
		}
	}

	out := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.members)
	}
	return out
}

// WordJaccard computes Jaccard similarity between the whitespace-split
// token sets of two documents.
func WordJaccard(a, b string) float64 {
	return setJaccard(tokenSet(a), tokenSet(b))
}

func tokenSet(doc string) map[string]struct{} {
	tokens := strings.Fields(doc)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// FindJaccardDuplicates greedily clusters documents by brute-force
// whitespace-token Jaccard similarity against each cluster's first
// (representative) member. This is the O(N^2)-worst-case ground truth
// the approximate MinHash/LSH pipeline is validated against.
func FindJaccardDuplicates(docs []string, threshold float64) [][]int {
	type clusterEntry struct {
		repID   int
		members []int
	}
	var clusters []*clusterEntry

	for i, doc := range docs {
		matched := false
		for _, c := range clusters {
			if WordJaccard(doc, docs[c.repID]) >= threshold {
				c.members = append(c.members, i)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &clusterEntry{repID: i, members: []int{i}})
		}
	}

	out := make([][]int, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.members)
	}
	return out
}
