package cache

import (
	"fmt"
	"sync"
	"time"

	"threadchat/internal/models"
)

type viewEntry struct {
	view      []models.MessageResponse
	expiresAt time.Time
}

// ViewCache holds rendered conversation views for a fixed TTL. Entries are
// keyed by the normalized user pair and evicted lazily on lookup once
// expired. The cache never touches the store, so writes are never blocked
// behind cached reads.
type ViewCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]viewEntry
}

func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]viewEntry),
	}
}

// WithClock overrides the time source, used by tests.
func (vc *ViewCache) WithClock(now func() time.Time) *ViewCache {
	vc.now = now
	return vc
}

// ConversationKey is order-insensitive: the pair (a, b) and (b, a) address
// the same conversation view.
func ConversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("conversation:%d:%d", a, b)
}

// Get returns the cached view and its remaining validity. Entries at or past
// their expiry are treated as absent and dropped.
func (vc *ViewCache) Get(key string) ([]models.MessageResponse, time.Duration, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	entry, ok := vc.entries[key]
	if !ok {
		return nil, 0, false
	}
	remaining := entry.expiresAt.Sub(vc.now())
	if remaining <= 0 {
		delete(vc.entries, key)
		return nil, 0, false
	}
	return entry.view, remaining, true
}

func (vc *ViewCache) Put(key string, view []models.MessageResponse) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	vc.entries[key] = viewEntry{
		view:      view,
		expiresAt: vc.now().Add(vc.ttl),
	}
}

func (vc *ViewCache) TTL() time.Duration {
	return vc.ttl
}
