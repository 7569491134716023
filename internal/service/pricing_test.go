package service

import (
	"math"
	"testing"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	d := pricing.Distance(13.7563, 100.5018, 13.7563, 100.5018)
	if d != 0 {
		t.Errorf("expected 0 for identical points, got %f", d)
	}
}

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	// One degree of latitude along a meridian is R*pi/180 km.
	d := pricing.Distance(13.0, 100.0, 14.0, 100.0)
	if d != 111.19 {
		t.Errorf("expected 111.19 km, got %f", d)
	}
}

func TestDistance_IsSymmetric(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	ab := pricing.Distance(13.7455, 100.5331, 13.7997, 100.5536)
	ba := pricing.Distance(13.7997, 100.5536, 13.7455, 100.5331)
	if ab != ba {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("expected positive distance, got %f", ab)
	}
}

func TestDistance_MissingCoordinateYieldsZero(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	testCases := []struct {
		name string
		lat1 float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := pricing.Distance(tc.lat1, 100.5, 13.7, 100.6)
			if d != 0 {
				t.Errorf("expected 0 for %s coordinate, got %f", tc.name, d)
			}
		})
	}
}

func TestTravelTimeMinutes(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	testCases := []struct {
		distanceKm float64
		want       int
	}{
		{0, 0},
		{30, 60},
		{5, 10},
		{111.19, 222},
		{0.2, 0}, // rounds down below half a minute
	}

	for _, tc := range testCases {
		got := pricing.TravelTimeMinutes(tc.distanceKm)
		if got != tc.want {
			t.Errorf("TravelTimeMinutes(%f) = %d, want %d", tc.distanceKm, got, tc.want)
		}
	}
}

func TestEstimate_MinimumFareApplies(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	// 0.5 km standard is 4.5 by the meter, well under the 60 minimum.
	fare := pricing.Estimate(0.5, domain.VehicleTypeStandard)
	if fare != 60 {
		t.Errorf("expected minimum fare 60, got %f", fare)
	}
}

func TestEstimate_RoundsUpToNearestTen(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	testCases := []struct {
		name        string
		distanceKm  float64
		vehicleType domain.VehicleType
		want        float64
	}{
		{"exact multiple stays", 10, domain.VehicleTypeStandard, 90},
		{"fraction rounds up", 10.01, domain.VehicleTypeStandard, 100},
		{"motorcycle long trip", 10, domain.VehicleTypeMotorcycle, 60},
		{"premium under minimum", 7, domain.VehicleTypePremium, 100},
		{"van minimum", 1, domain.VehicleTypeVan, 120},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fare := pricing.Estimate(tc.distanceKm, tc.vehicleType)
			if fare != tc.want {
				t.Errorf("Estimate(%f, %s) = %f, want %f", tc.distanceKm, tc.vehicleType, fare, tc.want)
			}
		})
	}
}

func TestEstimate_UnknownVehicleTypeFallsBackToStandard(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService(nil)

	unknown := pricing.Estimate(10, domain.VehicleType("hovercraft"))
	standard := pricing.Estimate(10, domain.VehicleTypeStandard)
	if unknown != standard {
		t.Errorf("expected unknown type to price as standard (%f), got %f", standard, unknown)
	}
}
