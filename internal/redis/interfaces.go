package redis

import "context"

// DriverCacheInterface defines the cache operations for driver
// profiles. The cache is an injected collaborator with explicit TTLs,
// never a process-wide singleton.
type DriverCacheInterface interface {
	GetDriver(ctx context.Context, driverID string) (*CachedDriver, error)
	SetDriver(ctx context.Context, driver *CachedDriver) error
	InvalidateDriver(ctx context.Context, driverID string) error
}

// Ensure concrete types implement interfaces.
var _ DriverCacheInterface = (*CacheStore)(nil)
