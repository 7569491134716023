package service

import "context"

// Geocoder resolves coordinates to a human-readable address. Lookups
// are best-effort: on error the caller keeps whatever free-text address
// it already has and never fails the enclosing operation.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}
