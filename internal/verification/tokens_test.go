package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tahoak/park-collective/internal/httperr"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Take(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.data, key)
	return v, nil
}

func TestIssueAndConsumeOnce(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, 48*time.Hour)
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, PurposeSubscription, "sub-1")
	if err != nil {
		t.Fatal(err)
	}
	if store.ttls[key(PurposeSubscription, tok)] != 48*time.Hour {
		t.Fatal("ttl not applied")
	}

	if _, err := tokens.Consume(ctx, PurposeClaim, tok); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("token must be bound to its purpose, got %v", err)
	}

	subject, err := tokens.Consume(ctx, PurposeSubscription, tok)
	if err != nil || subject != "sub-1" {
		t.Fatalf("consume = %q, %v", subject, err)
	}
	if _, err := tokens.Consume(ctx, PurposeSubscription, tok); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("reuse must fail, got %v", err)
	}
	if _, err := tokens.Consume(ctx, PurposeSubscription, "not-a-token"); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("malformed token accepted: %v", err)
	}
}
