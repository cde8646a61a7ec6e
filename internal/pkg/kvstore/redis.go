package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrMissingClient indicates the Redis driver was selected without a client.
var ErrMissingClient = errors.New("kvstore: redis client is required")

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	// Client is a connected client. The store owns it after construction.
	Client *redis.Client
	// Prefix is prepended to every key.
	Prefix string
}

// Redis implements KV on top of go-redis.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis-backed KV.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.Client == nil {
		return nil, ErrMissingClient
	}

	return &Redis{client: opts.Client, prefix: opts.Prefix}, nil
}

// Get returns the value for key or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return v, nil
}

// Set stores value under key without expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
