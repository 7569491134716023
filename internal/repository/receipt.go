package repository

import (
	"context"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

// ReceiptRepository defines the persistence operations for receipts.
type ReceiptRepository interface {
	// Create persists a receipt. The receipts table carries a unique
	// constraint on request_id and the insert ignores duplicates, so
	// retried completions leave exactly one row behind.
	Create(ctx context.Context, receipt *domain.Receipt) error

	// GetByRequestID retrieves the receipt for a request.
	GetByRequestID(ctx context.Context, requestID string) (*domain.Receipt, error)
}
