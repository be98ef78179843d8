// Package ratelimit paces outbound marketplace calls.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next call is permitted.
type Pacer interface {
	Wait(ctx context.Context) error
}

// DefaultInterval is the marketplace's expected gap between calls.
const DefaultInterval = time.Second

// TokenBucket is a Pacer backed by a token bucket.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket permits one call per interval with the given burst.
// A non-positive interval disables pacing.
func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &TokenBucket{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a token is available or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}

// Unlimited never blocks.
type Unlimited struct{}

// Wait returns ctx.Err() without blocking.
func (Unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Recorder is a Pacer that counts waits without blocking. Useful in tests.
type Recorder struct {
	mu    sync.Mutex
	waits int
}

// Wait records the call.
func (r *Recorder) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.waits++
	r.mu.Unlock()
	return nil
}

// Waits returns how many times Wait succeeded.
func (r *Recorder) Waits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waits
}
