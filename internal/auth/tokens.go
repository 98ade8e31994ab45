package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks revoked token ids until their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenStore implements TokenStore on Redis. Revocations carry the
// remaining token lifetime as TTL so the set cleans itself up.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore constructs a RedisTokenStore.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) key(jti string) string {
	return "auth:revoked:" + jti
}

// Revoke marks a token id as revoked for the given duration.
func (s *RedisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, s.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.
func (s *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, s.key(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ TokenStore = (*RedisTokenStore)(nil)
