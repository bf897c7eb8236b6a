package hashfamily

import "testing"

func TestHashDeterministic(t *testing.T) {
	a := Hash([]byte("hello world"), 3)
	b := Hash([]byte("hello world"), 3)
	if a != b {
		t.Error("Hash should be deterministic for the same input and seed")
	}
}

func TestHashFamilyIndependence(t *testing.T) {
	data := []byte("the quick brown fox")
	seen := make(map[Digest]bool)
	for i := 0; i < 8; i++ {
		d := Hash(data, i)
		if seen[d] {
			t.Errorf("seed %d produced a digest already seen from another seed", i)
		}
		seen[d] = true
	}
}

func TestModWithinRange(t *testing.T) {
	d := Hash([]byte("document text"), 0)
	for _, m := range []int{1, 7, 1024, 1 << 20} {
		v := d.Mod(m)
		if v < 0 || v >= m {
			t.Errorf("Mod(%d) = %d, want in [0, %d)", m, v, m)
		}
	}
}

func TestModPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for m <= 0")
		}
	}()
	Hash([]byte("x"), 0).Mod(0)
}

func TestFamilyAtVariesWithIndex(t *testing.T) {
	fam := NewFamily([]byte("shingle-example"))
	values := make(map[uint64]bool)
	for i := 0; i < 16; i++ {
		values[fam.At(i)] = true
	}
	if len(values) < 14 {
		t.Errorf("expected near-distinct family members, got %d distinct out of 16", len(values))
	}
}
