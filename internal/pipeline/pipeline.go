// Package pipeline parallelizes the embarrassingly-parallel per-document
// stage of the dedup pipeline — shingling and MinHash signature
// computation — over a bounded goroutine pool, then feeds results into
// an LSH index sequentially to preserve bucket-insertion order.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/neardedup/neardedup/internal/minhash"
	"github.com/neardedup/neardedup/internal/shingle"
)

// Config controls pool sizing for signature computation.
type Config struct {
	// PoolSize is the number of goroutines available for concurrent
	// shingling + signature work. Zero selects runtime.NumCPU().
	PoolSize int
}

// DefaultConfig sizes the pool to the number of available CPUs.
func DefaultConfig() Config {
	return Config{PoolSize: runtime.NumCPU()}
}

// SignatureJob is one document's input to signature computation.
type SignatureJob struct {
	ID             int
	NormalizedText []byte
}

// SignatureResult pairs a document ID with its computed signature. Err
// is non-nil only if the job's own computation failed; MinHash
// computation itself cannot fail, so Err always being nil here is
// expected in the current implementation but the field is kept so a
// caller can plug in a validating hasher later.
type SignatureResult struct {
	ID  int
	Sig minhash.Signature
	Err error
}

// ComputeSignatures runs shingle+MinHash for every job concurrently over
// a bounded ants pool, and returns results ordered by ID ascending
// regardless of completion order.
func ComputeSignatures(jobs []SignatureJob, shingleWidth, numHashes int, cfg Config) ([]SignatureResult, error) {
	if cfg.PoolSize <= 0 {
		cfg = DefaultConfig()
	}

	hasher := minhash.New(numHashes)
	results := make([]SignatureResult, len(jobs))

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(raw interface{}) {
		defer wg.Done()
		job := raw.(SignatureJob)
		shingles := shingle.Shingle(job.NormalizedText, shingleWidth)
		results[job.ID] = SignatureResult{ID: job.ID, Sig: hasher.Signature(shingles)}
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: creating worker pool: %w", err)
	}
	defer pool.Release()

	bp := NewBackpressureController(nil)
	for _, job := range jobs {
		bp.Observe(pool.Running(), pool.Cap())
		wg.Add(1)
		if err := pool.Invoke(job); err != nil {
			wg.Done()
			return nil, fmt.Errorf("pipeline: submitting job %d: %w", job.ID, err)
		}
	}
	wg.Wait()

	return results, nil
}
