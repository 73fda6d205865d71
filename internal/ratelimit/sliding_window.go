package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowLimiter counts accepted requests per client key over a rolling
// window. A call is allowed while fewer than limit requests were accepted
// inside the window; rejected calls are not recorded. State is process-local
// and resets on restart.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	now    func() time.Time
	hits   map[string][]time.Time
}

func NewSlidingWindowLimiter(window time.Duration, limit int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window: window,
		limit:  limit,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// WithClock overrides the time source, used by tests.
func (swl *SlidingWindowLimiter) WithClock(now func() time.Time) *SlidingWindowLimiter {
	swl.now = now
	return swl
}

func (swl *SlidingWindowLimiter) Allow(key string) bool {
	swl.mu.Lock()
	defer swl.mu.Unlock()

	now := swl.now()
	cutoff := now.Add(-swl.window)

	recent := swl.hits[key][:0]
	for _, hit := range swl.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}

	if len(recent) >= swl.limit {
		swl.hits[key] = recent
		return false
	}

	swl.hits[key] = append(recent, now)
	return true
}
