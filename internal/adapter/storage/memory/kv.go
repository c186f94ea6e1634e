package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"daycheck/internal/core/port"
)

// kvStore keeps entries in a go-cache instance without expiration. Used by
// tests and for ephemeral runs; nothing survives the process.
type kvStore struct {
	cache *cache.Cache
}

func NewKVStore() port.KVStore {
	return &kvStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	s.cache.Set(key, buf, cache.NoExpiration)
	return nil
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := s.cache.Get(key)

	if !found {
		return nil, nil
	}

	return value.([]byte), nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *kvStore) Close() error {
	s.cache.Flush()
	return nil
}
