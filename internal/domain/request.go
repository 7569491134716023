package domain

import "time"

// RequestStatus represents the current status of a transport request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// ValidRequestStatus reports whether s is one of the closed set of
// request statuses. Status strings coming from the outside must pass
// this check before they reach any store operation.
func ValidRequestStatus(s string) bool {
	switch RequestStatus(s) {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Location is a point with an optional free-text address.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
}

// Request represents a customer's transport booking.
//
// AcceptedOfferID and PaymentID are set together when an offer is
// accepted: both are empty exactly while the request is pending or
// cancelled, and both are non-empty while it is accepted or completed.
type Request struct {
	ID              string
	CustomerID      string
	Pickup          Location
	Dropoff         Location
	VehicleType     VehicleType
	Status          RequestStatus
	AcceptedOfferID string
	PaymentID       string
	BookingTime     time.Time // optional scheduled pickup; zero means "as soon as possible"
	CustomerMessage string
	CreatedAt       time.Time
}
