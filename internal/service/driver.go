package service

import (
	"context"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/redis"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// DriverDirectory looks up driver profiles through the cache. Offer
// preconditions hit it on every call, so profiles are cached with a
// short TTL and invalidated when approval changes.
type DriverDirectory struct {
	driverRepo repository.DriverRepository
	cache      redis.DriverCacheInterface
}

// NewDriverDirectory creates a DriverDirectory. The cache may be nil.
func NewDriverDirectory(driverRepo repository.DriverRepository, cache redis.DriverCacheInterface) *DriverDirectory {
	return &DriverDirectory{
		driverRepo: driverRepo,
		cache:      cache,
	}
}

// Lookup retrieves a driver profile, preferring the cache.
func (d *DriverDirectory) Lookup(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if d.cache != nil {
		cached, err := d.cache.GetDriver(ctx, driverID)
		if err == nil && cached != nil {
			return &domain.Driver{
				ID:             cached.ID,
				Name:           cached.Name,
				Phone:          cached.Phone,
				ApprovalStatus: domain.ApprovalStatus(cached.ApprovalStatus),
				VehicleType:    domain.VehicleType(cached.VehicleType),
			}, nil
		}
		// Cache errors degrade to a repository read.
	}

	driver, err := d.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	d.cacheAsync(driver)
	return driver, nil
}

// RequireApproved retrieves a driver and fails unless they are approved.
func (d *DriverDirectory) RequireApproved(ctx context.Context, driverID string) (*domain.Driver, error) {
	driver, err := d.Lookup(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.Approved() {
		return nil, ErrDriverNotApproved
	}
	return driver, nil
}

// Invalidate drops a driver's cache entry, e.g. after an approval
// change.
func (d *DriverDirectory) Invalidate(ctx context.Context, driverID string) {
	if d.cache == nil {
		return
	}
	_ = d.cache.InvalidateDriver(ctx, driverID)
}

// cacheAsync caches a driver profile without blocking the caller.
func (d *DriverDirectory) cacheAsync(driver *domain.Driver) {
	if d.cache == nil {
		return
	}
	go func() {
		cached := &redis.CachedDriver{
			ID:             driver.ID,
			Name:           driver.Name,
			Phone:          driver.Phone,
			ApprovalStatus: string(driver.ApprovalStatus),
			VehicleType:    string(driver.VehicleType),
		}
		_ = d.cache.SetDriver(context.Background(), cached)
	}()
}
