package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
	"github.com/sbilibin2017/gw-messenger/internal/models"
)

// ErrCacheMiss is returned when a profile is not cached.
var ErrCacheMiss = errors.New("profile not found in cache")

// UserCacheRepository caches public user profiles in Redis.
type UserCacheRepository struct {
	client redis.Cmdable
	exp    time.Duration
}

// NewUserCacheRepository creates a cache with the given entry TTL.
func NewUserCacheRepository(client redis.Cmdable, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userCacheKey(username string) string {
	return fmt.Sprintf("user_profile:%s", username)
}

// Get returns the cached profile of username or ErrCacheMiss.
func (r *UserCacheRepository) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	key := userCacheKey(username)

	val, err := r.client.Get(ctx, key).Bytes()
	logger.Log.Infow("cache get", "key", key, "error", err)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(val, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Set stores profile under its username, replacing any cached entry.
func (r *UserCacheRepository) Set(ctx context.Context, profile *models.UserProfile) error {
	key := userCacheKey(profile.Username)

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Infow("cache set", "key", key, "ttl", r.exp, "error", err)
	return err
}

// Add stores profile only if nothing is cached for its username yet, so a
// fill from an older read never replaces a profile written by Set.
func (r *UserCacheRepository) Add(ctx context.Context, profile *models.UserProfile) error {
	key := userCacheKey(profile.Username)

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	stored, err := r.client.SetNX(ctx, key, data, r.exp).Result()
	logger.Log.Infow("cache add", "key", key, "ttl", r.exp, "stored", stored, "error", err)
	return err
}
