package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/webtail-stripe/pkg/redis"
)

const (
	attributeKeyPrefix = "stripe:attr:"

	// DefaultAttributeCacheTTL is used when the configured TTL is zero
	DefaultAttributeCacheTTL = 10 * time.Minute
)

// CachedAttributeRepository wraps AttributeRepository with Redis caching.
// Only non-empty values are cached so a freshly created customer id is never shadowed.
type CachedAttributeRepository struct {
	repo  AttributeRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedAttributeRepository creates a new CachedAttributeRepository
func NewCachedAttributeRepository(repo AttributeRepository, cache *redis.Client, ttl time.Duration) *CachedAttributeRepository {
	if ttl <= 0 {
		ttl = DefaultAttributeCacheTTL
	}
	return &CachedAttributeRepository{repo: repo, cache: cache, ttl: ttl}
}

// GetAttribute reads through the cache; cache errors fall back to the store
func (r *CachedAttributeRepository) GetAttribute(ctx context.Context, keyGroup string, entityID int, key string) (string, error) {
	cacheKey := attributeCacheKey(keyGroup, entityID, key)
	if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		return cached, nil
	}

	value, err := r.repo.GetAttribute(ctx, keyGroup, entityID, key)
	if err != nil {
		return "", err
	}
	if value != "" {
		_ = r.cache.Set(ctx, cacheKey, value, r.ttl).Err()
	}
	return value, nil
}

// SaveAttribute writes to the store then invalidates the cached value
func (r *CachedAttributeRepository) SaveAttribute(ctx context.Context, keyGroup string, entityID int, key, value string) error {
	if err := r.repo.SaveAttribute(ctx, keyGroup, entityID, key, value); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, attributeCacheKey(keyGroup, entityID, key)).Err()
	return nil
}

func attributeCacheKey(keyGroup string, entityID int, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", attributeKeyPrefix, keyGroup, entityID, key)
}
