package auth

import (
	"context"
	"fmt"
	"time"

	"clubhub/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// Denylist records revoked token ids until the tokens expire.
type Denylist interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore is the Redis-backed Denylist.
type TokenStore struct {
	cache *cache.Client
}

var _ Denylist = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken adds a token id to the denylist. Redis errors are reported so
// the caller does not believe a logout succeeded when it did not.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return fmt.Errorf("revoke token: empty token id")
	}
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	if err := s.cache.SetStrict(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked checks the denylist.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}
