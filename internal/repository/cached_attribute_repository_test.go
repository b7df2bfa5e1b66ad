package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAttributeRepository tracks how often the backing store is read
type countingAttributeRepository struct {
	*MemoryAttributeRepository
	reads int
}

func (r *countingAttributeRepository) GetAttribute(ctx context.Context, keyGroup string, entityID int, key string) (string, error) {
	r.reads++
	return r.MemoryAttributeRepository.GetAttribute(ctx, keyGroup, entityID, key)
}

func TestCachedAttributeRepository_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	unreachable := redis.NewFromClient(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer unreachable.Close()

	store := &countingAttributeRepository{MemoryAttributeRepository: NewMemoryAttributeRepository()}
	repo := NewCachedAttributeRepository(store, unreachable, 0)
	assert.Equal(t, DefaultAttributeCacheTTL, repo.ttl)

	require.NoError(t, repo.SaveAttribute(ctx, KeyGroupCustomer, 1, domain.CustomerIDAttributeSandbox, "cus_1"))

	v, err := repo.GetAttribute(ctx, KeyGroupCustomer, 1, domain.CustomerIDAttributeSandbox)
	require.NoError(t, err)
	assert.Equal(t, "cus_1", v)
	assert.Equal(t, 1, store.reads)
}

func TestAttributeCacheKey(t *testing.T) {
	assert.Equal(t, "stripe:attr:Customer:7:StripeCustomerIdSandbox",
		attributeCacheKey(KeyGroupCustomer, 7, domain.CustomerIDAttributeSandbox))
}

func skipIfNoRedis(t *testing.T) *redis.Client {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test - set INTEGRATION_TEST=true to run")
	}

	cfg := redis.DefaultConfig()
	cfg.Host = getEnv("TEST_REDIS_HOST", "localhost")
	cfg.Password = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.DB = 1

	client, err := redis.NewClient(context.Background(), cfg)
	if err != nil {
		t.Skipf("Skipping integration test - Redis not available: %v", err)
	}
	return client
}

func TestCachedAttributeRepository_Integration(t *testing.T) {
	client := skipIfNoRedis(t)
	defer client.Close()

	ctx := context.Background()
	entityID := int(time.Now().UnixNano() % 1_000_000)
	key := domain.CustomerIDAttributeSandbox
	defer client.Del(ctx, attributeCacheKey(KeyGroupCustomer, entityID, key))

	store := &countingAttributeRepository{MemoryAttributeRepository: NewMemoryAttributeRepository()}
	repo := NewCachedAttributeRepository(store, client, time.Minute)

	// empty values are not cached
	v, err := repo.GetAttribute(ctx, KeyGroupCustomer, entityID, key)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, repo.SaveAttribute(ctx, KeyGroupCustomer, entityID, key, "cus_cached"))

	for i := 0; i < 3; i++ {
		v, err = repo.GetAttribute(ctx, KeyGroupCustomer, entityID, key)
		require.NoError(t, err)
		assert.Equal(t, "cus_cached", v)
	}
	assert.Equal(t, 2, store.reads)

	require.NoError(t, repo.SaveAttribute(ctx, KeyGroupCustomer, entityID, key, "cus_new"))
	v, _ = repo.GetAttribute(ctx, KeyGroupCustomer, entityID, key)
	assert.Equal(t, "cus_new", v)
}
