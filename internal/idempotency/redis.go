package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// idem:order:create:{key} -> saved response
	keyResponse = "idem:order:create:%s"
	// idem:order:create:{key}:lock -> in-flight marker
	keyLock = "idem:order:create:%s:lock"
)

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Response, bool, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyResponse, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Response{}, false, nil
	}
	if err != nil {
		return Response{}, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return Response{}, false, fmt.Errorf("failed to decode idempotency entry: %w", err)
	}
	return r, true, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, fmt.Sprintf(keyResponse, key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf(keyLock, key), 1, reservationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, r Response) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(keyResponse, key), raw, s.ttl)
		pipe.Del(ctx, fmt.Sprintf(keyLock, key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(keyLock, key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
