package domain

import "time"

// Receipt is the immutable completion artifact for a request. At most
// one receipt exists per request; retried completion calls must not
// create a second one.
type Receipt struct {
	ID            string
	RequestID     string
	CustomerID    string
	DriverID      string
	Price         float64
	DistanceKm    float64
	TravelTimeMin int
	Pickup        Location
	Dropoff       Location
	VehicleType   VehicleType
	CompletedAt   time.Time
	CreatedAt     time.Time
}
