package cache

import (
	"testing"
	"time"

	"threadchat/internal/models"
)

func TestConversationKeyIsOrderInsensitive(t *testing.T) {
	if ConversationKey(1, 2) != ConversationKey(2, 1) {
		t.Fatal("key must normalize the user pair")
	}
	if ConversationKey(1, 2) == ConversationKey(1, 3) {
		t.Fatal("distinct pairs must have distinct keys")
	}
}

func TestGetMissingKey(t *testing.T) {
	vc := NewViewCache(60 * time.Second)
	if _, _, ok := vc.Get(ConversationKey(1, 2)); ok {
		t.Fatal("empty cache should miss")
	}
}

func TestPutThenGet(t *testing.T) {
	now := time.Now()
	vc := NewViewCache(60 * time.Second).
		WithClock(func() time.Time { return now })

	view := []models.MessageResponse{{ID: 1, Sender: "alice", Content: "hi"}}
	key := ConversationKey(1, 2)
	vc.Put(key, view)

	got, remaining, ok := vc.Get(key)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 1 || got[0].Content != "hi" {
		t.Fatalf("unexpected cached view: %+v", got)
	}
	if remaining != 60*time.Second {
		t.Fatalf("expected full TTL remaining, got %v", remaining)
	}
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	vc := NewViewCache(60 * time.Second).
		WithClock(func() time.Time { return now })

	key := ConversationKey(1, 2)
	vc.Put(key, []models.MessageResponse{{ID: 1}})

	now = now.Add(59 * time.Second)
	if _, remaining, ok := vc.Get(key); !ok {
		t.Fatal("entry should still be valid inside the TTL")
	} else if remaining != time.Second {
		t.Fatalf("expected 1s remaining, got %v", remaining)
	}

	now = now.Add(2 * time.Second)
	if _, _, ok := vc.Get(key); ok {
		t.Fatal("entry should be gone after the TTL")
	}

	// Expired entries are evicted, not just hidden.
	vc.mu.Lock()
	_, present := vc.entries[key]
	vc.mu.Unlock()
	if present {
		t.Fatal("expired entry should be evicted on lookup")
	}
}

func TestStaleUntilExpiryThenFresh(t *testing.T) {
	now := time.Now()
	vc := NewViewCache(60 * time.Second).
		WithClock(func() time.Time { return now })

	key := ConversationKey(1, 2)
	vc.Put(key, []models.MessageResponse{{ID: 1, Content: "pre-write"}})

	// A write elsewhere does not invalidate; the stale view stays served.
	got, _, ok := vc.Get(key)
	if !ok || got[0].Content != "pre-write" {
		t.Fatal("stale view should be served inside the TTL")
	}

	now = now.Add(61 * time.Second)
	if _, _, ok := vc.Get(key); ok {
		t.Fatal("stale view must become invisible after the TTL")
	}

	vc.Put(key, []models.MessageResponse{{ID: 1, Content: "post-write"}})
	got, _, ok = vc.Get(key)
	if !ok || got[0].Content != "post-write" {
		t.Fatal("fresh view should be served after re-population")
	}
}
