package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gigpay/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService stores JSON snapshots in redis. Balances in a cached profile
// are informational only; every balance decision reads the database.
type CacheService struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCacheService(client redis.UniversalClient, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes key into dest. A missing key reports (false, nil).
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func (s *CacheService) profileKey(id uint) string {
	return s.GenerateKey("profile", "id", id)
}

// Profile caching
func (s *CacheService) CacheProfile(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return errors.New("cannot cache nil profile")
	}
	return s.Set(ctx, s.profileKey(profile.ID), cachedProfile{
		ID:         profile.ID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Profession: profile.Profession,
		Balance:    profile.Balance,
	})
}

// GetProfile returns (nil, nil) on a cache miss.
func (s *CacheService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var cp cachedProfile
	found, err := s.Get(ctx, s.profileKey(id), &cp)
	if err != nil || !found {
		return nil, err
	}
	return &models.Profile{
		ID:         cp.ID,
		FirstName:  cp.FirstName,
		LastName:   cp.LastName,
		Profession: cp.Profession,
		Balance:    cp.Balance,
	}, nil
}

// InvalidateProfiles drops the cached snapshots of the given profiles.
func (s *CacheService) InvalidateProfiles(ctx context.Context, ids ...uint) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.profileKey(id))
	}
	return s.Delete(ctx, keys...)
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

// cachedProfile is the wire shape kept in redis; it omits the password hash.
type cachedProfile struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Profession string `json:"profession"`
	Balance    int64  `json:"balance"`
}
