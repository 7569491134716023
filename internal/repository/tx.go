package repository

import "context"

// Stores bundles the repositories that participate in negotiation
// transactions, all scoped to the same unit of work.
type Stores struct {
	Requests RequestRepository
	Offers   OfferRepository
	Payments PaymentRepository
	Receipts ReceiptRepository
}

// TxRunner executes a function inside a single database transaction.
// The Stores handed to fn write through that transaction; if fn returns
// an error every write is rolled back. Request and Offer rows must only
// ever be mutated through a TxRunner.
type TxRunner interface {
	InTx(ctx context.Context, fn func(s Stores) error) error
}
