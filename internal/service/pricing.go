package service

import (
	"math"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// Average city speed used for ETA estimates.
	avgSpeedKmh = 30.0

	// Fares are rounded up to the nearest 10 currency units.
	fareRoundingStep = 10.0
)

// RateCard holds the pricing parameters for one vehicle type.
type RateCard struct {
	RatePerKm   float64
	MinimumFare float64
}

// DefaultRateCards returns the built-in per-vehicle-type pricing table.
func DefaultRateCards() map[domain.VehicleType]RateCard {
	return map[domain.VehicleType]RateCard{
		domain.VehicleTypeMotorcycle: {RatePerKm: 6, MinimumFare: 30},
		domain.VehicleTypeStandard:   {RatePerKm: 9, MinimumFare: 60},
		domain.VehicleTypePremium:    {RatePerKm: 14, MinimumFare: 100},
		domain.VehicleTypeVan:        {RatePerKm: 12, MinimumFare: 120},
	}
}

// PricingService is the pure geospatial math used for quotes, ETAs and
// receipts. It holds no state beyond its rate table and performs no I/O.
type PricingService struct {
	rates map[domain.VehicleType]RateCard
}

// NewPricingService creates a PricingService. A nil rates map selects
// the default table.
func NewPricingService(rates map[domain.VehicleType]RateCard) *PricingService {
	if rates == nil {
		rates = DefaultRateCards()
	}
	return &PricingService{rates: rates}
}

// Distance returns the great-circle distance between two points in km,
// rounded to 2 decimals. A missing coordinate (NaN or Inf) yields 0:
// callers must treat 0 as "unknown", not "co-located".
func (s *PricingService) Distance(lat1, lng1, lat2, lng2 float64) float64 {
	for _, v := range [...]float64{lat1, lng1, lat2, lng2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
	}

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*100) / 100
}

// TravelTimeMinutes estimates travel time in whole minutes at the
// average city speed.
func (s *PricingService) TravelTimeMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm / avgSpeedKmh * 60))
}

// Estimate returns the suggested price for a trip of the given distance
// and vehicle type: max(distance*rate, minimum fare), rounded up to the
// nearest 10. Unknown vehicle types fall back to the standard card.
func (s *PricingService) Estimate(distanceKm float64, vehicleType domain.VehicleType) float64 {
	card, ok := s.rates[vehicleType]
	if !ok {
		card = s.rates[domain.VehicleTypeStandard]
	}

	fare := distanceKm * card.RatePerKm
	if fare < card.MinimumFare {
		fare = card.MinimumFare
	}

	return math.Ceil(fare/fareRoundingStep) * fareRoundingStep
}
