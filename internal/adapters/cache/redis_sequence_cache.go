package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"walk-schedule-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Redis-backed cache for optimizer stop sequences, keyed by walk date.
// The optimizer round trip is the one expensive external call in the system;
// a short TTL keeps re-renders of the same day from repeating it while still
// picking up re-optimized sequences.
type RedisSequenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSequenceCache(client *redis.Client, ttl time.Duration) *RedisSequenceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSequenceCache{client: client, ttl: ttl}
}

func sequenceKey(date domain.Date) string {
	return "stopseq:" + date.String()
}

// Get fetches the cached sequence for the date. A miss is ok=false, not an error.
func (c *RedisSequenceCache) Get(ctx context.Context, date domain.Date) ([]domain.Stop, bool, error) {
	if c.client == nil {
		return nil, false, errors.New("sequence cache: client is nil")
	}

	payload, err := c.client.Get(ctx, sequenceKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sequence cache %s: %w", date, err)
	}

	var stops []domain.Stop
	if err := json.Unmarshal(payload, &stops); err != nil {
		return nil, false, fmt.Errorf("get sequence cache %s: decode: %w", date, err)
	}

	return stops, true, nil
}

// Put stores the sequence for the date under the configured TTL.
func (c *RedisSequenceCache) Put(ctx context.Context, date domain.Date, stops []domain.Stop) error {
	if c.client == nil {
		return errors.New("sequence cache: client is nil")
	}

	payload, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("put sequence cache %s: encode: %w", date, err)
	}

	if err := c.client.Set(ctx, sequenceKey(date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("put sequence cache %s: %w", date, err)
	}

	return nil
}
