package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// ReceiptRepository is a PostgreSQL implementation of repository.ReceiptRepository.
type ReceiptRepository struct {
	q Querier
}

// NewReceiptRepository creates a new PostgreSQL receipt repository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{q: db}
}

// NewReceiptRepositoryWithTx creates a receipt repository using a transaction.
func NewReceiptRepositoryWithTx(tx *sql.Tx) *ReceiptRepository {
	return &ReceiptRepository{q: tx}
}

const receiptColumns = `id, request_id, customer_id, driver_id, price, distance_km, travel_time_min, pickup_lat, pickup_lng, pickup_address, dropoff_lat, dropoff_lng, dropoff_address, vehicle_type, completed_at, created_at`

// Create persists a receipt. The unique constraint on request_id plus
// ON CONFLICT DO NOTHING keeps creation idempotent under retries.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (request_id) DO NOTHING
	`

	_, err := r.q.ExecContext(ctx, query,
		receipt.ID,
		receipt.RequestID,
		receipt.CustomerID,
		receipt.DriverID,
		receipt.Price,
		receipt.DistanceKm,
		receipt.TravelTimeMin,
		receipt.Pickup.Lat,
		receipt.Pickup.Lng,
		receipt.Pickup.Address,
		receipt.Dropoff.Lat,
		receipt.Dropoff.Lng,
		receipt.Dropoff.Address,
		receipt.VehicleType,
		receipt.CompletedAt,
		receipt.CreatedAt,
	)

	return err
}

// GetByRequestID retrieves the receipt for a request.
func (r *ReceiptRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE request_id = $1`

	var receipt domain.Receipt
	err := r.q.QueryRowContext(ctx, query, requestID).Scan(
		&receipt.ID,
		&receipt.RequestID,
		&receipt.CustomerID,
		&receipt.DriverID,
		&receipt.Price,
		&receipt.DistanceKm,
		&receipt.TravelTimeMin,
		&receipt.Pickup.Lat,
		&receipt.Pickup.Lng,
		&receipt.Pickup.Address,
		&receipt.Dropoff.Lat,
		&receipt.Dropoff.Lng,
		&receipt.Dropoff.Address,
		&receipt.VehicleType,
		&receipt.CompletedAt,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &receipt, nil
}
