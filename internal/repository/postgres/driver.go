package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

const driverColumns = `id, name, phone, approval_status, vehicle_type, created_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		driver.ApprovalStatus,
		driver.VehicleType,
		driver.CreatedAt,
	)

	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE phone = $1`
	return r.getOne(ctx, query, phone)
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.Name,
			&driver.Phone,
			&driver.ApprovalStatus,
			&driver.VehicleType,
			&driver.CreatedAt,
		); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// UpdateApproval updates a driver's approval status.
func (r *DriverRepository) UpdateApproval(ctx context.Context, id string, status domain.ApprovalStatus) error {
	query := `UPDATE drivers SET approval_status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *DriverRepository) getOne(ctx context.Context, query string, arg any) (*domain.Driver, error) {
	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.ApprovalStatus,
		&driver.VehicleType,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}
