package service

import (
	"context"
	"time"

	"clubhub/internal/cache"
)

const entityCacheTTL = 5 * time.Minute

// readThrough returns the cached value under key or loads and caches it.
// Cache failures fall back to load.
func readThrough[T any](ctx context.Context, c *cache.Client, key string, load func() (*T, error)) (*T, error) {
	var cached T
	if c.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	c.SetJSON(ctx, key, v, entityCacheTTL)
	return v, nil
}

// blankToNil treats an empty optional string as absent.
func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// patchOptional applies an optional string of a partial update: nil keeps
// the stored value and an empty string clears it.
func patchOptional(dst **string, src *string) {
	if src != nil {
		*dst = blankToNil(src)
	}
}
