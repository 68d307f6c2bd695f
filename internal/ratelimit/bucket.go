// Package ratelimit throttles the neurovis MCP query tools with one token
// bucket per tool.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Bucket is a token bucket refilled continuously. It starts full and is
// safe for concurrent use.
type Bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64 // tokens per second
	burst  float64
	now    func() time.Time
}

// NewBucket creates a bucket that refills perMinute tokens a minute and holds
// at most burst.
func NewBucket(perMinute float64, burst int) *Bucket {
	return &Bucket{
		tokens: float64(burst),
		rate:   perMinute / 60,
		burst:  float64(burst),
		now:    time.Now,
	}
}

// Take removes one token. When the bucket is empty it reports how long until
// the next token arrives; the wait is negative if the bucket never refills.
func (b *Bucket) Take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.last.IsZero() {
		if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
			b.tokens = math.Min(b.burst, b.tokens+b.rate*elapsed)
		}
	}
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, -1
	}
	return false, time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Allow reports whether a token was available and takes it.
func (b *Bucket) Allow() bool {
	ok, _ := b.Take()
	return ok
}
