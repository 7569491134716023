package domain

import "time"

// OfferStatus represents the current status of a driver's price offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// ValidOfferStatus reports whether s is one of the closed set of offer
// statuses.
func ValidOfferStatus(s string) bool {
	switch OfferStatus(s) {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected:
		return true
	}
	return false
}

// Offer represents a driver's proposed price against a specific request.
//
// A (request, driver) pair holds at most one row: a rejected offer is
// re-opened in place when the driver offers again, never duplicated.
type Offer struct {
	ID           string
	RequestID    string
	DriverID     string
	OfferedPrice float64
	Status       OfferStatus
	CreatedAt    time.Time
}
