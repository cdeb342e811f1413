package voucher

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces sequence keys in a shared Redis.
const DefaultRedisKeyPrefix = "ledgerbook:seq:"

// RedisSequencer uses INCR so several processes can number vouchers from
// one counter.
type RedisSequencer struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisSequencer creates a RedisSequencer. An empty keyPrefix uses
// DefaultRedisKeyPrefix.
func NewRedisSequencer(client redis.Cmdable, keyPrefix string) *RedisSequencer {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisSequencer{client: client, keyPrefix: keyPrefix}
}

// Next increments the ledger key and returns the new value.
func (s *RedisSequencer) Next(ctx context.Context, ledger string) (int, error) {
	n, err := s.client.Incr(ctx, s.keyPrefix+ledger).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing sequence %s: %w", ledger, err)
	}
	return int(n), nil
}
