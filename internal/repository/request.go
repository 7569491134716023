package repository

import (
	"context"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

// RequestRepository defines the persistence operations for transport
// requests.
//
// The MarkX methods are conditioned updates: each carries its legal
// source status in the WHERE clause and returns ErrConflict when zero
// rows were affected. Combined with a transaction this is what makes
// contested transitions pick exactly one winner.
type RequestRepository interface {
	// Create persists a new request.
	Create(ctx context.Context, request *domain.Request) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*domain.Request, error)

	// ListPending retrieves pending requests, newest first. An empty
	// vehicleType matches all types.
	ListPending(ctx context.Context, vehicleType domain.VehicleType) ([]*domain.Request, error)

	// MarkAccepted moves a pending request to accepted, recording the
	// winning offer and the payment created for it.
	MarkAccepted(ctx context.Context, id, offerID, paymentID string) error

	// MarkCompleted moves an accepted request to completed.
	MarkCompleted(ctx context.Context, id string) error

	// MarkCancelled moves a pending or accepted request to cancelled.
	MarkCancelled(ctx context.Context, id string) error
}
