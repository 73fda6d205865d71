package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestAllowUpToLimit(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 5)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("6th request inside the window should be rejected")
	}
}

func TestWindowSlides(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindowLimiter(60*time.Second, 5).
		WithClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request over the limit should be rejected")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("request after the window elapsed should be allowed")
	}
}

func TestRejectedRequestsAreNotRecorded(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindowLimiter(60*time.Second, 5).
		WithClock(func() time.Time { return now })

	for i := 0; i < 5; i++ {
		limiter.Allow("10.0.0.1")
	}
	// Hammering while blocked must not extend the block.
	for i := 0; i < 10; i++ {
		limiter.Allow("10.0.0.1")
	}

	now = now.Add(61 * time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("rejected requests must not count against the window")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 5)

	for i := 0; i < 5; i++ {
		limiter.Allow("10.0.0.1")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("first key should be exhausted")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("second key should be unaffected")
	}
}

func TestConcurrentAllow(t *testing.T) {
	limiter := NewSlidingWindowLimiter(60*time.Second, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("10.0.0.1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 5 {
		t.Fatalf("expected exactly 5 allowed under concurrency, got %d", allowed)
	}
}
