package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DriverCacheTTL bounds how stale an approval status can get; offer
// preconditions read through this cache on every call.
const DriverCacheTTL = 5 * time.Minute

const driverCachePrefix = "cache:driver:"

// CachedDriver represents a cached driver profile.
type CachedDriver struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	ApprovalStatus string `json:"approval_status"`
	VehicleType    string `json:"vehicle_type"`
}

// GetDriver retrieves a driver from cache. A cache miss returns
// (nil, nil).
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*CachedDriver, error) {
	key := driverCachePrefix + driverID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	key := driverCachePrefix + driver.ID
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	key := driverCachePrefix + driverID
	return s.client.Del(ctx, key).Err()
}
