package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "sitemap:session:"
	maxUpdateRetries = 5
)

// RedisStore keeps sessions in Redis as JSON so several dashboard instances
// can serve the same browser.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a Store backed by rdb.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL and checks connectivity.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: ping redis: %w", err)
	}
	return rdb, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (State, error) {
	return load(ctx, r.rdb, redisKeyPrefix+id)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error) {
	key := redisKeyPrefix + id
	var next State

	txf := func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, key)
		if errors.Is(err, ErrNotFound) {
			cur = NewState()
		} else if err != nil {
			return err
		}

		next, err = fn(cur)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("session: encode state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	for range maxUpdateRetries {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return State{}, err
		}
		return next, nil
	}
	return State{}, fmt.Errorf("session: update %s: %w", id, redis.TxFailedErr)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, key string) (State, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("session: load: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("session: decode state: %w", err)
	}
	return s, nil
}
