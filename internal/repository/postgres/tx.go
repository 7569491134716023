package postgres

import (
	"context"
	"database/sql"

	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// TxRunner runs functions inside a database/sql transaction, handing
// them transaction-scoped repositories.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InTx begins a transaction, builds transaction-scoped stores, and
// commits if fn returns nil. Any error from fn rolls everything back.
func (t *TxRunner) InTx(ctx context.Context, fn func(s repository.Stores) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stores := repository.Stores{
		Requests: NewRequestRepositoryWithTx(tx),
		Offers:   NewOfferRepositoryWithTx(tx),
		Payments: NewPaymentRepositoryWithTx(tx),
		Receipts: NewReceiptRepositoryWithTx(tx),
	}

	if err = fn(stores); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
