package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KOSASIH/nexus-revoluter/internal/ports"
)

// RedisKYCStore caches oracle verdicts in front of a slower verifier.
// Only positive verdicts are cached; a rejected account is re-checked
// on the next release attempt.
type RedisKYCStore struct {
	client   *redis.Client
	upstream ports.KYCVerifier
	ttl      time.Duration
}

func NewRedisKYCStore(client *redis.Client, upstream ports.KYCVerifier, ttl time.Duration) *RedisKYCStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisKYCStore{client: client, upstream: upstream, ttl: ttl}
}

func (s *RedisKYCStore) Verify(ctx context.Context, account string) (bool, error) {
	key := "ledger:kyc:" + account
	cached, err := s.client.Get(ctx, key).Result()
	if err == nil && cached == "verified" {
		return true, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	verified, err := s.upstream.Verify(ctx, account)
	if err != nil {
		return false, err
	}
	if verified {
		_ = s.client.Set(ctx, key, "verified", s.ttl).Err()
	}
	return verified, nil
}
