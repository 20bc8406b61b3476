package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedMarker is stored as the value of every blacklist entry.
const revokedMarker = "revoked"

// RedisTokenRepo keeps the refresh-token blacklist. The raw token string is
// the key; the entry lives for the token's lifetime and then expires.
type RedisTokenRepo struct {
	client redis.UniversalClient
}

func NewRedisTokenRepo(client redis.UniversalClient) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisTokenRepo) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired on its own; nothing to remember
		return nil
	}
	return r.client.Set(ctx, token, revokedMarker, ttl).Err()
}

func (r *RedisTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := r.client.Get(ctx, token).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

func (r *RedisTokenRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
