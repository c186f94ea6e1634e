package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"daycheck/internal/core/port"
	"daycheck/pkg/tracing"
)

type KVStore struct {
	client *redis.Client
}

func NewKVStore(ctx context.Context, addr string) (port.KVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &KVStore{client: client}, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return tracing.StorageSpanWrapper(ctx, "redis", "set", key, func(ctx context.Context) error {
		// Entries have no TTL; rollover is decided by date comparison, not expiry.
		if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}

		return nil
	})
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := tracing.StorageSpanWrapper(ctx, "redis", "get", key, func(ctx context.Context) error {
		raw, err := s.client.Get(ctx, key).Bytes()

		if errors.Is(err, redis.Nil) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("get %q: %w", key, err)
		}

		value = raw
		return nil
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return tracing.StorageSpanWrapper(ctx, "redis", "delete", key, func(ctx context.Context) error {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}

		return nil
	})
}

func (s *KVStore) Close() error {
	return s.client.Close()
}
