package pipeline

import (
	"testing"

	"github.com/neardedup/neardedup/internal/minhash"
)

func TestSignatureCacheGetMiss(t *testing.T) {
	c := NewSignatureCache(nil)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}
	if c.Stats().Misses != 1 {
		t.Errorf("expected 1 miss recorded, got %d", c.Stats().Misses)
	}
}

func TestSignatureCachePutThenGet(t *testing.T) {
	c := NewSignatureCache(nil)
	key := Key([]byte("normalized text"))
	sig := minhash.Signature{1, 2, 3}

	c.Put(key, sig)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if len(got) != len(sig) {
		t.Errorf("expected retrieved signature to match, got %v want %v", got, sig)
	}
}

func TestSignatureCacheEvictsLRU(t *testing.T) {
	c := NewSignatureCache(&SignatureCacheConfig{Capacity: 2})
	c.Put("a", minhash.Signature{1})
	c.Put("b", minhash.Signature{2})
	c.Put("c", minhash.Signature{3})

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry evicted once capacity exceeded")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected most recently added entry to remain")
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key([]byte("same content"))
	b := Key([]byte("same content"))
	if a != b {
		t.Error("expected Key to be deterministic for identical input")
	}
}
