package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/metrics"
)

const redisKeyPrefix = "admission:leads:"

// RedisStore shares the lead list cache across instances. Redis being down
// degrades to misses, never to errors visible to staff.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisStore connects to Redis by URL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration, m *metrics.Metrics) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ttl, m), nil
}

// NewRedisStoreWithClient wraps an existing client; used by tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, metrics: m}
}

func key(tab lead.Status) string {
	return redisKeyPrefix + string(tab)
}

func (s *RedisStore) Get(ctx context.Context, tab lead.Status) ([]lead.Lead, bool) {
	raw, err := s.client.Get(ctx, key(tab)).Bytes()
	if err != nil {
		s.metrics.RecordCacheMiss("redis")
		return nil, false
	}

	var leads []lead.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		s.metrics.RecordCacheMiss("redis")
		return nil, false
	}
	s.metrics.RecordCacheHit("redis")
	return leads, true
}

func (s *RedisStore) Set(ctx context.Context, tab lead.Status, leads []lead.Lead) error {
	raw, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("failed to encode cached leads: %w", err)
	}
	if err := s.client.Set(ctx, key(tab), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache leads: %w", err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, tab lead.Status) error {
	if err := s.client.Del(ctx, key(tab)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached leads: %w", err)
	}
	return nil
}

func (s *RedisStore) InvalidateAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached leads: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached leads: %w", err)
	}
	return nil
}
