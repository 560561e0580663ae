// Package verification issues single-use email tokens with a TTL.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/httperr"
)

type Purpose string

const (
	PurposeSubscription Purpose = "subscription"
	PurposeClaim        Purpose = "claim"
)

// ErrNotFound is returned by a Store for missing or expired keys.
var ErrNotFound = errors.New("token not found")

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Take returns and deletes the value atomically.
	Take(ctx context.Context, key string) (string, error)
}

type Tokens struct {
	store Store
	ttl   time.Duration
}

func NewTokens(store Store, ttl time.Duration) *Tokens {
	return &Tokens{store: store, ttl: ttl}
}

// Issue binds a fresh token to subject (a subscriber or claim id).
func (t *Tokens) Issue(ctx context.Context, p Purpose, subject string) (string, error) {
	token := uuid.NewString()
	if err := t.store.Set(ctx, key(p, token), subject, t.ttl); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Consume resolves a token once; unknown, expired or reused tokens are invalid_token.
func (t *Tokens) Consume(ctx context.Context, p Purpose, token string) (string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return "", httperr.ErrBusiness("invalid_token")
	}
	subject, err := t.store.Take(ctx, key(p, token))
	if errors.Is(err, ErrNotFound) {
		return "", httperr.ErrBusiness("invalid_token")
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return subject, nil
}

func key(p Purpose, token string) string {
	return "verify:" + string(p) + ":" + token
}
