package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// Payment represents the ledger entry created when an offer is accepted.
// PaymentMethodRef is an opaque token issued by the payment gateway;
// this core never sees card data.
type Payment struct {
	ID               string
	CustomerID       string
	Amount           float64
	Status           PaymentStatus
	PaymentMethodRef string
	CreatedAt        time.Time
}
