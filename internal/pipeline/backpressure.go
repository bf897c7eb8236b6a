package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// BackpressureConfig controls how ingestion throttles itself against the
// signature-computation pool's queue depth.
type BackpressureConfig struct {
	HighWatermark float64       // Pressure above which ingestion slows down
	LowWatermark  float64       // Pressure below which ingestion resumes full speed
	MinDelay      time.Duration
	MaxDelay      time.Duration
}

// DefaultBackpressureConfig returns watermarks suited to a bounded ants
// pool feeding an LSH index.
func DefaultBackpressureConfig() *BackpressureConfig {
	return &BackpressureConfig{
		HighWatermark: 0.8,
		LowWatermark:  0.5,
		MinDelay:      time.Millisecond,
		MaxDelay:      100 * time.Millisecond,
	}
}

// BackpressureController adapts ingestion pace to the depth of a bounded
// work queue, so a large collection streamed in faster than the pool can
// sign it does not grow the queue without bound.
type BackpressureController struct {
	cfg          *BackpressureConfig
	currentDelay int64 // nanoseconds, accessed atomically
	pressured    int32
	mu           sync.Mutex
}

// NewBackpressureController constructs a controller under cfg.
func NewBackpressureController(cfg *BackpressureConfig) *BackpressureController {
	if cfg == nil {
		cfg = DefaultBackpressureConfig()
	}
	return &BackpressureController{
		cfg:          cfg,
		currentDelay: cfg.MinDelay.Nanoseconds(),
	}
}

// Observe reports the current queue depth against its capacity and
// sleeps for the current delay before returning. The delay doubles (up to
// MaxDelay) when pressure is above HighWatermark and halves (down to
// MinDelay) when it is below LowWatermark, so every call sleeps at least
// MinDelay.
func (bc *BackpressureController) Observe(queueLen, queueCap int) {
	if queueCap == 0 {
		return
	}
	pressure := float64(queueLen) / float64(queueCap)

	switch {
	case pressure > bc.cfg.HighWatermark:
		atomic.StoreInt32(&bc.pressured, 1)
		bc.adjustDelay(true)
	case pressure < bc.cfg.LowWatermark:
		atomic.StoreInt32(&bc.pressured, 0)
		bc.adjustDelay(false)
	}

	delay := time.Duration(atomic.LoadInt64(&bc.currentDelay))
	if delay > 0 {
		time.Sleep(delay)
	}
}

func (bc *BackpressureController) adjustDelay(increase bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	current := atomic.LoadInt64(&bc.currentDelay)
	maxDelay := bc.cfg.MaxDelay.Nanoseconds()
	minDelay := bc.cfg.MinDelay.Nanoseconds()

	var next int64
	if increase {
		next = current * 2
		if next > maxDelay {
			next = maxDelay
		}
	} else {
		next = current / 2
		if next < minDelay {
			next = minDelay
		}
	}
	atomic.StoreInt64(&bc.currentDelay, next)
}

// IsPressured reports whether the controller is currently slowing
// ingestion down.
func (bc *BackpressureController) IsPressured() bool {
	return atomic.LoadInt32(&bc.pressured) == 1
}
