package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshStore tracks issued refresh tokens by jti so redemption can be
// revoked before the token itself expires. It is only consulted when the
// deployment runs with a token store enabled; stateless deployments never
// construct one.
type RefreshStore interface {
	Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error
	Valid(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

const refreshKeyPrefix = "refresh:"

// RedisRefreshStore keeps refresh-token jtis in redis with the token's TTL.
type RedisRefreshStore struct {
	client *redis.Client
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func (s *RedisRefreshStore) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+jti, userID, ttl).Err()
}

func (s *RedisRefreshStore) Valid(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, refreshKeyPrefix+jti).Err()
}
