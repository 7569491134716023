package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `id, customer_id, pickup_lat, pickup_lng, pickup_address, dropoff_lat, dropoff_lng, dropoff_address, vehicle_type, status, accepted_offer_id, payment_id, booking_time, customer_message, created_at`

// Create persists a new request.
func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) error {
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var bookingTime sql.NullTime
	if !request.BookingTime.IsZero() {
		bookingTime = sql.NullTime{Time: request.BookingTime, Valid: true}
	}

	var message sql.NullString
	if request.CustomerMessage != "" {
		message = sql.NullString{String: request.CustomerMessage, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		request.ID,
		request.CustomerID,
		request.Pickup.Lat,
		request.Pickup.Lng,
		request.Pickup.Address,
		request.Dropoff.Lat,
		request.Dropoff.Lng,
		request.Dropoff.Address,
		request.VehicleType,
		request.Status,
		nullString(request.AcceptedOfferID),
		nullString(request.PaymentID),
		bookingTime,
		message,
		request.CreatedAt,
	)

	return err
}

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	request, err := scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return request, nil
}

// ListPending retrieves pending requests, newest first.
func (r *RequestRepository) ListPending(ctx context.Context, vehicleType domain.VehicleType) ([]*domain.Request, error) {
	query := `
		SELECT ` + requestColumns + ` FROM requests
		WHERE status = $1 AND ($2 = '' OR vehicle_type = $2)
		ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, domain.RequestStatusPending, string(vehicleType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// MarkAccepted moves a pending request to accepted. The status
// predicate makes concurrent accepts and cancels pick exactly one
// winner; the losers see ErrConflict.
func (r *RequestRepository) MarkAccepted(ctx context.Context, id, offerID, paymentID string) error {
	query := `
		UPDATE requests
		SET status = $1, accepted_offer_id = $2, payment_id = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusAccepted, offerID, paymentID, id, domain.RequestStatusPending)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// MarkCompleted moves an accepted request to completed.
func (r *RequestRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE requests SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusCompleted, id, domain.RequestStatusAccepted)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// MarkCancelled moves a pending or accepted request to cancelled.
func (r *RequestRepository) MarkCancelled(ctx context.Context, id string) error {
	query := `UPDATE requests SET status = $1 WHERE id = $2 AND status IN ($3, $4)`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusCancelled, id, domain.RequestStatusPending, domain.RequestStatusAccepted)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var request domain.Request
	var acceptedOfferID, paymentID, message sql.NullString
	var bookingTime sql.NullTime

	err := row.Scan(
		&request.ID,
		&request.CustomerID,
		&request.Pickup.Lat,
		&request.Pickup.Lng,
		&request.Pickup.Address,
		&request.Dropoff.Lat,
		&request.Dropoff.Lng,
		&request.Dropoff.Address,
		&request.VehicleType,
		&request.Status,
		&acceptedOfferID,
		&paymentID,
		&bookingTime,
		&message,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if acceptedOfferID.Valid {
		request.AcceptedOfferID = acceptedOfferID.String
	}
	if paymentID.Valid {
		request.PaymentID = paymentID.String
	}
	if bookingTime.Valid {
		request.BookingTime = bookingTime.Time
	}
	if message.Valid {
		request.CustomerMessage = message.String
	}

	return &request, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// requireOneRow maps a zero-rows-affected conditioned update to
// ErrConflict.
func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}
	return nil
}
