package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-messenger/internal/models"
	"github.com/stretchr/testify/assert"
)

// fakeRedis implements the subset of redis.Cmdable used by the cache.
type fakeRedis struct {
	redis.Cmdable
	data   map[string]string
	ttl    map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.Set(ctx, key, value, expiration)
	return redis.NewBoolResult(true, nil)
}

func TestUserCacheRepository(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewUserCacheRepository(client, 30*time.Second)

	_, err := cache.Get(ctx, "alice")
	assert.ErrorIs(t, err, ErrCacheMiss)

	joined := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	profile := &models.UserProfile{Username: "alice", FirstName: "Alice", LastName: "Liddell", Phone: "+100", JoinedAt: joined, LastLoginAt: joined}
	assert.NoError(t, cache.Set(ctx, profile))
	assert.Equal(t, 30*time.Second, client.ttl["user_profile:alice"])

	got, err := cache.Get(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, profile, got)

	relogged := *profile
	relogged.LastLoginAt = joined.Add(time.Hour)
	assert.NoError(t, cache.Set(ctx, &relogged))

	got, err = cache.Get(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, &relogged, got)
}

func TestUserCacheRepository_AddKeepsNewerEntry(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewUserCacheRepository(client, 30*time.Second)

	joined := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stale := &models.UserProfile{Username: "alice", JoinedAt: joined, LastLoginAt: joined}
	fresh := &models.UserProfile{Username: "alice", JoinedAt: joined, LastLoginAt: joined.Add(time.Minute)}

	assert.NoError(t, cache.Set(ctx, fresh))
	assert.NoError(t, cache.Add(ctx, stale))

	got, err := cache.Get(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, fresh, got)

	assert.NoError(t, cache.Add(ctx, &models.UserProfile{Username: "bob", JoinedAt: joined, LastLoginAt: joined}))
	assert.Equal(t, 30*time.Second, client.ttl["user_profile:bob"])
}

func TestUserCacheRepository_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("redis failure", func(t *testing.T) {
		client := newFakeRedis()
		client.getErr = errors.New("dial tcp: refused")

		_, err := NewUserCacheRepository(client, time.Second).Get(ctx, "alice")
		assert.EqualError(t, err, "dial tcp: refused")
	})

	t.Run("corrupted entry", func(t *testing.T) {
		client := newFakeRedis()
		client.data["user_profile:alice"] = "{not json"

		_, err := NewUserCacheRepository(client, time.Second).Get(ctx, "alice")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCacheMiss)
	})
}
