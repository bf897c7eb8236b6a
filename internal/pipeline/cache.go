package pipeline

import (
	"container/list"
	"sync"
	"time"

	"github.com/neardedup/neardedup/internal/hashfamily"
	"github.com/neardedup/neardedup/internal/minhash"
)

// signatureCacheEntry is one memoized signature, keyed by the content
// digest of its normalized document text.
type signatureCacheEntry struct {
	key       string
	sig       minhash.Signature
	createdAt time.Time
}

// SignatureCache memoizes MinHash signatures by normalized-text digest,
// an LRU bounded by item count rather than byte size since signatures
// are fixed-length. Useful when a collection contains many near- or
// byte-identical documents whose signatures would otherwise be
// recomputed on every run.
type SignatureCache struct {
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List
	hits     int64
	misses   int64
	mu       sync.Mutex
}

// SignatureCacheConfig controls cache sizing.
type SignatureCacheConfig struct {
	Capacity int           // Maximum number of memoized signatures
	TTL      time.Duration // Zero means entries never expire
}

// DefaultSignatureCacheConfig returns a reasonably sized cache for
// single-run use.
func DefaultSignatureCacheConfig() *SignatureCacheConfig {
	return &SignatureCacheConfig{Capacity: 50000}
}

// NewSignatureCache constructs a SignatureCache under cfg.
func NewSignatureCache(cfg *SignatureCacheConfig) *SignatureCache {
	if cfg == nil {
		cfg = DefaultSignatureCacheConfig()
	}
	return &SignatureCache{
		capacity: cfg.Capacity,
		ttl:      cfg.TTL,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Key derives the cache key for normalized document text.
func Key(normalizedText []byte) string {
	d := hashfamily.Hash(normalizedText, 0)
	return string(d[:])
}

// Get returns the memoized signature for key, if present and unexpired.
func (c *SignatureCache) Get(key string) (minhash.Signature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	entry := elem.Value.(*signatureCacheEntry)
	if c.ttl > 0 && time.Since(entry.createdAt) > c.ttl {
		c.removeElement(elem)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return entry.sig, true
}

// Put memoizes sig under key, evicting the least recently used entry if
// the cache is at capacity.
func (c *SignatureCache) Put(key string, sig minhash.Signature) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	for c.order.Len() >= c.capacity && c.order.Len() > 0 {
		c.evictOldest()
	}

	entry := &signatureCacheEntry{key: key, sig: sig, createdAt: time.Now()}
	elem := c.order.PushFront(entry)
	c.items[key] = elem
}

// Stats reports cumulative hit/miss counts and current item count.
type Stats struct {
	Hits      int64
	Misses    int64
	ItemCount int
}

// Stats returns a snapshot of cache statistics.
func (c *SignatureCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, ItemCount: len(c.items)}
}

func (c *SignatureCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*signatureCacheEntry)
	delete(c.items, entry.key)
	c.order.Remove(elem)
}

func (c *SignatureCache) evictOldest() {
	elem := c.order.Back()
	if elem != nil {
		c.removeElement(elem)
	}
}
