package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"recordbook/models"
)

// Cache is the subset of the Redis client used for single-record caching.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Store = (*CachedStore)(nil)

// CachedStore serves Get through a read-through cache and invalidates the
// entry on Update and Delete.
type CachedStore struct {
	Store
	cache Cache
	ttl   time.Duration
}

func NewCachedStore(inner Store, cache Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{Store: inner, cache: cache, ttl: ttl}
}

func cacheKey(collection, id string) string {
	return fmt.Sprintf("records:%s:%s", collection, id)
}

func (s *CachedStore) Get(ctx context.Context, collection, id string) (*models.Record, error) {
	key := cacheKey(collection, id)

	val, err := s.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var rec models.Record
		if jerr := json.Unmarshal([]byte(val), &rec); jerr == nil {
			return &rec, nil
		}
		slog.Warn("Discarding corrupt cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		slog.Warn("Cache read failed", "key", key, "error", err)
	}

	rec, err := s.Store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return rec, nil
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
	return rec, nil
}

func (s *CachedStore) Update(ctx context.Context, collection string, rec *models.Record) error {
	if err := s.Store.Update(ctx, collection, rec); err != nil {
		return err
	}
	s.invalidate(ctx, collection, rec.ID)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.Store.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.invalidate(ctx, collection, id)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, collection, id string) {
	key := cacheKey(collection, id)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		slog.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}
