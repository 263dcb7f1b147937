package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/youruser/posterboxd/internal/media"
)

const (
	keyPrefix = "posterboxd:session:"
	indexKey  = "posterboxd:sessions"
	seqKey    = "posterboxd:sessions:seq"
)

// RedisStore shares sessions between server instances. Insertion order is
// kept in a sorted set so the same capacity bound applies.
type RedisStore struct {
	client   *redis.Client
	capacity int
	ttl      time.Duration
}

func NewRedisStore(client *redis.Client, capacity int, ttl time.Duration) *RedisStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisStore{client: client, capacity: capacity, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, token string) (*media.Aggregate, error) {
	b, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var agg media.Aggregate
	if err := json.Unmarshal(b, &agg); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &agg, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, agg *media.Aggregate) error {
	b, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	seq, err := s.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return fmt.Errorf("redis session seq: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+token, b, s.ttl)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(seq), Member: token})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return s.evict(ctx)
}

func (s *RedisStore) evict(ctx context.Context) error {
	n, err := s.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis session count: %w", err)
	}
	over := n - int64(s.capacity)
	if over <= 0 {
		return nil
	}
	popped, err := s.client.ZPopMin(ctx, indexKey, over).Result()
	if err != nil {
		return fmt.Errorf("redis evict sessions: %w", err)
	}
	keys := make([]string, 0, len(popped))
	for _, z := range popped {
		if m, ok := z.Member.(string); ok {
			keys = append(keys, keyPrefix+m)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
