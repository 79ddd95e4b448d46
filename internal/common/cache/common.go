package cache

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
)

// GetWithCached is cache-aside: a hit is decoded with unmarshal, a miss calls
// fn and stores the marshaled result with a jittered ttl. Cache failures
// are logged and degrade to calling fn; errors from fn are returned and never cached.
func GetWithCached[T any](
	ctx context.Context,
	cache Cache,
	key string,
	ttl time.Duration,
	marshal func(T) (string, error),
	unmarshal func(string) (T, error),
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T

	cached, err := cache.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn(ctx, "cache get failed", zap.String("key", key), zap.Error(err))
	case cached != "":
		result, err := unmarshal(cached)
		if err == nil {
			return result, nil
		}
		logger.Warn(ctx, "cached value undecodable", zap.String("key", key), zap.Error(err))
	}

	data, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := marshal(data)
	if err != nil {
		logger.Warn(ctx, "cache encode failed", zap.String("key", key), zap.Error(err))
		return data, nil
	}
	if err := cache.Set(ctx, key, encoded, JitterTTL(ttl)); err != nil {
		logger.Warn(ctx, "cache set failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// JitterTTL shortens ttl by up to a tenth so keys written together expire apart.
func JitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	maxJitter := int64(ttl / 10)
	if maxJitter <= 0 {
		return ttl
	}
	n, err := rand.Int(rand.Reader, big.NewInt(maxJitter+1))
	if err != nil {
		return ttl
	}
	return ttl - time.Duration(n.Int64())
}
