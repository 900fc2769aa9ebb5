package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStateStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStateStore namespaces every key with prefix so the site can share a Redis database.
func NewRedisStateStore(client *redis.Client, prefix string) StateStore {
	return &redisStateStore{client: client, prefix: prefix}
}

func (s *redisStateStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *redisStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nilOnMiss(s.client.Get(ctx, s.prefix+key).Bytes())
}

func (s *redisStateStore) Take(ctx context.Context, key string) ([]byte, error) {
	return nilOnMiss(s.client.GetDel(ctx, s.prefix+key).Bytes())
}

func (s *redisStateStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *redisStateStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	return n > 0, err
}

func nilOnMiss(val []byte, err error) ([]byte, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}
