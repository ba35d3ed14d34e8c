package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"
)

const (
	reportPrefix  = "report:"
	revokedPrefix = "revoked_token:"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(ctx context.Context, redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse Redis URL")
	}

	rdb := redis.NewClient(opt)

	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "connect to Redis")
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Report caching

// GetReport decodes the cached report under key into dest. It reports false
// when nothing is cached.
func (c *Client) GetReport(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, reportPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "get report %s", key)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, errors.Wrapf(err, "decode report %s", key)
	}
	return true, nil
}

func (c *Client) SetReport(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode report %s", key)
	}
	return c.rdb.Set(ctx, reportPrefix+key, data, ttl).Err()
}

// InvalidateReports drops every cached report.
func (c *Client) InvalidateReports(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, reportPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scan report keys")
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Token revocation

// RevokeToken blacklists a token id until ttl elapses, which should match the
// token's remaining lifetime.
func (c *Client) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

func (c *Client) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(err, "check revoked token")
	}
	return n > 0, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
