package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/redis"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// ──────────────────────────────────────────────
// 9. DRIVER DIRECTORY & CACHE
// ──────────────────────────────────────────────

func TestDriverDirectory_CacheHitSkipsRepository(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	cache := NewMockDriverCache()
	directory := service.NewDriverDirectory(driverRepo, cache)

	_ = cache.SetDriver(context.Background(), &redis.CachedDriver{
		ID:             "driver-1",
		Name:           "Cached Driver",
		ApprovalStatus: string(domain.ApprovalStatusApproved),
		VehicleType:    string(domain.VehicleTypeStandard),
	})

	driver, err := directory.Lookup(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.Name != "Cached Driver" {
		t.Errorf("expected cached profile, got %q", driver.Name)
	}
	if driverRepo.GetByIDCallCount != 0 {
		t.Error("cache hit must not touch the repository")
	}
}

func TestDriverDirectory_CacheMissFallsThrough(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	cache := NewMockDriverCache()
	directory := service.NewDriverDirectory(driverRepo, cache)

	driverRepo.AddDriver(&domain.Driver{
		ID:             "driver-1",
		Name:           "DB Driver",
		ApprovalStatus: domain.ApprovalStatusApproved,
	})

	driver, err := directory.Lookup(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.Name != "DB Driver" {
		t.Errorf("expected repository profile, got %q", driver.Name)
	}

	// The profile is written back asynchronously.
	deadline := time.Now().Add(time.Second)
	for !cache.HasDriver("driver-1") {
		if time.Now().After(deadline) {
			t.Fatal("profile never written back to cache")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDriverDirectory_CacheErrorDegradesToRepository(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	cache := NewMockDriverCache()
	cache.GetError = ErrMockTimeout
	directory := service.NewDriverDirectory(driverRepo, cache)

	driverRepo.AddDriver(&domain.Driver{
		ID:             "driver-1",
		ApprovalStatus: domain.ApprovalStatusApproved,
	})

	if _, err := directory.Lookup(context.Background(), "driver-1"); err != nil {
		t.Fatalf("cache failure must degrade to a repository read: %v", err)
	}
}

func TestDriverDirectory_InvalidateDropsEntry(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	cache := NewMockDriverCache()
	directory := service.NewDriverDirectory(driverRepo, cache)

	_ = cache.SetDriver(context.Background(), &redis.CachedDriver{
		ID:             "driver-1",
		ApprovalStatus: string(domain.ApprovalStatusApproved),
	})

	directory.Invalidate(context.Background(), "driver-1")

	if cache.HasDriver("driver-1") {
		t.Error("expected cache entry to be dropped")
	}
}

func TestDriverDirectory_SuspensionTakesEffectAfterInvalidate(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	cache := NewMockDriverCache()
	directory := service.NewDriverDirectory(driverRepo, cache)

	driverRepo.AddDriver(&domain.Driver{
		ID:             "driver-1",
		ApprovalStatus: domain.ApprovalStatusApproved,
	})
	_ = cache.SetDriver(context.Background(), &redis.CachedDriver{
		ID:             "driver-1",
		ApprovalStatus: string(domain.ApprovalStatusApproved),
	})

	// Suspension lands in the database and the cache is invalidated,
	// the same sequence the approval endpoint performs.
	if err := driverRepo.UpdateApproval(context.Background(), "driver-1", domain.ApprovalStatusSuspended); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	directory.Invalidate(context.Background(), "driver-1")

	_, err := directory.RequireApproved(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrDriverNotApproved) {
		t.Errorf("expected ErrDriverNotApproved after suspension, got %v", err)
	}
}

func TestDriverDirectory_UnknownDriver(t *testing.T) {
	t.Parallel()

	directory := service.NewDriverDirectory(NewMockDriverRepository(), NewMockDriverCache())

	_, err := directory.Lookup(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
