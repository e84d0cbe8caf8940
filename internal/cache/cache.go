package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by the strict operations on a nil client.
var ErrNotConfigured = errors.New("cache not configured")

// Client is a best-effort Redis cache. Reads and writes degrade to cache
// misses when Redis is unreachable; only Ping, SetStrict and Exists report
// errors. A nil *Client behaves as an always-empty cache.
type Client struct {
	rdb *redis.Client
}

// New creates a client for the Redis server at addr. No connection is made
// until the first command.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (c *Client) configured() bool {
	return c != nil && c.rdb != nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the raw value under key, or nil on a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.configured() {
		return nil, nil
	}
	res, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors are both misses
		return nil, nil
	}
	return res, nil
}

// GetJSON decodes the value under key into dst and reports whether it did.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// Set stores value with a TTL. Redis errors are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.configured() {
		_ = c.rdb.Set(ctx, key, value, ttl).Err()
	}
	return nil
}

// SetJSON encodes v and stores it with a TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, payload, ttl)
}

// SetStrict is Set with errors reported, for writes that must not be lost
// silently such as token revocations.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	if !c.configured() {
		return false, ErrNotConfigured
	}
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes keys. Redis errors are dropped.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c.configured() && len(keys) > 0 {
		_ = c.rdb.Del(ctx, keys...).Err()
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.configured() {
		return nil
	}
	return c.rdb.Close()
}
