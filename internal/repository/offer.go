package repository

import (
	"context"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

// OfferRepository defines the persistence operations for offers.
type OfferRepository interface {
	// Create persists a new offer. A driver holds at most one row per
	// request; creating over an existing (request_id, driver_id) pair
	// returns ErrConflict.
	Create(ctx context.Context, offer *domain.Offer) error

	// GetByID retrieves an offer by ID.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// GetByRequestAndDriver retrieves the single offer a driver holds
	// against a request, regardless of status.
	GetByRequestAndDriver(ctx context.Context, requestID, driverID string) (*domain.Offer, error)

	// ListByRequest retrieves all offers for a request, newest first.
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error)

	// Reopen moves a rejected offer back to pending with a fresh price
	// and timestamp. Returns ErrConflict if the offer is no longer
	// rejected.
	Reopen(ctx context.Context, id string, price float64, at time.Time) error

	// MarkAccepted moves a pending offer to accepted. Returns
	// ErrConflict if the offer is no longer pending.
	MarkAccepted(ctx context.Context, id string) error

	// MarkRejected moves a pending offer to rejected. Returns
	// ErrConflict if the offer is no longer pending.
	MarkRejected(ctx context.Context, id string) error

	// RejectPendingByRequest rejects every still-pending offer for a
	// request except the one named by exceptOfferID. Pass an empty
	// exceptOfferID to reject them all. Affecting zero rows is not an
	// error here.
	RejectPendingByRequest(ctx context.Context, requestID, exceptOfferID string) error
}
