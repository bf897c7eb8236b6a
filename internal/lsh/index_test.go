package lsh

import "testing"

func defaultConfig() Config {
	return Config{
		ShingleWidth: 5,
		NumHashes:    50,
		NumBands:     10,
		RowsPerBand:  5,
	}
}

func TestNewIndexRejectsBadGeometry(t *testing.T) {
	cfg := defaultConfig()
	cfg.NumHashes = 49
	if _, err := NewIndex(cfg); err == nil {
		t.Error("expected error when NumHashes != NumBands*RowsPerBand")
	}
}

func TestAddDocumentAndCandidates(t *testing.T) {
	idx, err := NewIndex(defaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	docs := map[int]string{
		0: "the quick brown fox jumps over the lazy dog",
		1: "the quick brown fox jumps over the dog",
		2: "lazy dogs are quick to jump over",
		3: "a totally different sentence here",
		4: "lazy foxes and dogs often jump",
		5: "a quick fox jumps over the lazy dog quickly",
	}
	for id := 0; id < 6; id++ {
		if err := idx.AddDocument(id, []byte(docs[id])); err != nil {
			t.Fatal(err)
		}
	}

	clusters := idx.ClusterCandidates()

	found01 := false
	for _, members := range clusters {
		has0, has1, has3 := false, false, false
		for _, m := range members {
			if m == 0 {
				has0 = true
			}
			if m == 1 {
				has1 = true
			}
			if m == 3 {
				has3 = true
			}
		}
		if has0 && has1 {
			found01 = true
		}
		if has3 {
			t.Errorf("document 3 (unrelated sentence) unexpectedly clustered with %v", members)
		}
	}
	if !found01 {
		t.Error("expected documents 0 and 1 to share a cluster")
	}
}

func TestFindCandidatesSymmetricAndCanonical(t *testing.T) {
	idx, err := NewIndex(defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	text := "repeated content for bucket collision testing across documents"
	for id := 0; id < 3; id++ {
		if err := idx.AddDocument(id, []byte(text)); err != nil {
			t.Fatal(err)
		}
	}
	pairs := idx.FindCandidates()
	if len(pairs) == 0 {
		t.Fatal("expected candidate pairs for identical documents")
	}
	for _, p := range pairs {
		if p.Low >= p.High {
			t.Errorf("pair %v is not canonicalized (Low < High)", p)
		}
	}
}

func TestInvariantBucketMembershipCount(t *testing.T) {
	cfg := defaultConfig()
	idx, err := NewIndex(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.AddDocument(0, []byte("some moderately long piece of document text here")); err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, band := range idx.buckets {
		for _, ids := range band {
			for _, id := range ids {
				if id == 0 {
					count++
				}
			}
		}
	}
	if count != cfg.NumBands {
		t.Errorf("expected document to appear in exactly B=%d buckets, appeared in %d", cfg.NumBands, count)
	}
}
