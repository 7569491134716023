package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// OfferRepository is a PostgreSQL implementation of repository.OfferRepository.
type OfferRepository struct {
	q Querier
}

// NewOfferRepository creates a new PostgreSQL offer repository.
func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{q: db}
}

// NewOfferRepositoryWithTx creates an offer repository using a transaction.
func NewOfferRepositoryWithTx(tx *sql.Tx) *OfferRepository {
	return &OfferRepository{q: tx}
}

const offerColumns = `id, request_id, driver_id, offered_price, status, created_at`

// Create persists a new offer. The offers table is unique on
// (request_id, driver_id); inserting over an existing pair affects
// zero rows and returns ErrConflict.
func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (request_id, driver_id) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		offer.ID,
		offer.RequestID,
		offer.DriverID,
		offer.OfferedPrice,
		offer.Status,
		offer.CreatedAt,
	)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// GetByID retrieves an offer by ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	offer, err := scanOffer(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return offer, nil
}

// GetByRequestAndDriver retrieves the single offer a driver holds
// against a request.
func (r *OfferRepository) GetByRequestAndDriver(ctx context.Context, requestID, driverID string) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE request_id = $1 AND driver_id = $2`

	offer, err := scanOffer(r.q.QueryRowContext(ctx, query, requestID, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return offer, nil
}

// ListByRequest retrieves all offers for a request, newest first.
func (r *OfferRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE request_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*domain.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// Reopen moves a rejected offer back to pending with a fresh price and
// timestamp.
func (r *OfferRepository) Reopen(ctx context.Context, id string, price float64, at time.Time) error {
	query := `
		UPDATE offers
		SET offered_price = $1, status = $2, created_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		price, domain.OfferStatusPending, at, id, domain.OfferStatusRejected)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// MarkAccepted moves a pending offer to accepted.
func (r *OfferRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query,
		domain.OfferStatusAccepted, id, domain.OfferStatusPending)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// MarkRejected moves a pending offer to rejected.
func (r *OfferRepository) MarkRejected(ctx context.Context, id string) error {
	query := `UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query,
		domain.OfferStatusRejected, id, domain.OfferStatusPending)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// RejectPendingByRequest rejects every still-pending offer for a
// request except the one named by exceptOfferID.
func (r *OfferRepository) RejectPendingByRequest(ctx context.Context, requestID, exceptOfferID string) error {
	query := `
		UPDATE offers SET status = $1
		WHERE request_id = $2 AND status = $3 AND id <> $4
	`

	_, err := r.q.ExecContext(ctx, query,
		domain.OfferStatusRejected, requestID, domain.OfferStatusPending, exceptOfferID)

	return err
}

func scanOffer(row rowScanner) (*domain.Offer, error) {
	var offer domain.Offer

	err := row.Scan(
		&offer.ID,
		&offer.RequestID,
		&offer.DriverID,
		&offer.OfferedPrice,
		&offer.Status,
		&offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &offer, nil
}
