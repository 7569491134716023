package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// ──────────────────────────────────────────────
// 1. REQUEST CREATION
// ──────────────────────────────────────────────

func TestCreateRequest_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")

	result, err := f.requestSvc.CreateRequest(context.Background(), service.CreateRequestInput{
		CustomerID:  "customer-1",
		Pickup:      pickupSiam,
		Dropoff:     dropoffChatuchak,
		VehicleType: string(domain.VehicleTypeStandard),
		Message:     "call on arrival",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Request.Status != domain.RequestStatusPending {
		t.Errorf("expected status %s, got %s", domain.RequestStatusPending, result.Request.Status)
	}
	if result.Request.ID == "" {
		t.Error("expected generated request ID")
	}
	if result.DistanceKm <= 0 {
		t.Errorf("expected positive distance, got %f", result.DistanceKm)
	}
	if result.EstimatedPrice < 60 {
		t.Errorf("standard quote below minimum fare: %f", result.EstimatedPrice)
	}
	if math.Mod(result.EstimatedPrice, 10) != 0 {
		t.Errorf("quote not rounded to 10: %f", result.EstimatedPrice)
	}

	stored := f.requests.GetRequest(result.Request.ID)
	if stored == nil {
		t.Fatal("request not persisted")
	}
	if stored.CustomerMessage != "call on arrival" {
		t.Errorf("message not stored, got %q", stored.CustomerMessage)
	}
}

func TestCreateRequest_UnknownCustomerRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.requestSvc.CreateRequest(context.Background(), service.CreateRequestInput{
		CustomerID:  "ghost",
		Pickup:      pickupSiam,
		Dropoff:     dropoffChatuchak,
		VehicleType: string(domain.VehicleTypeStandard),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if f.requests.CreateCallCount != 0 {
		t.Error("request must not be persisted for unknown customer")
	}
}

func TestCreateRequest_InvalidInputRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")

	testCases := []struct {
		name    string
		input   service.CreateRequestInput
		wantErr error
	}{
		{
			name: "missing customer",
			input: service.CreateRequestInput{
				Pickup: pickupSiam, Dropoff: dropoffChatuchak,
				VehicleType: string(domain.VehicleTypeStandard),
			},
			wantErr: service.ErrInvalidCustomerID,
		},
		{
			name: "latitude out of range",
			input: service.CreateRequestInput{
				CustomerID:  "customer-1",
				Pickup:      domain.Location{Lat: 91, Lng: 100},
				Dropoff:     dropoffChatuchak,
				VehicleType: string(domain.VehicleTypeStandard),
			},
			wantErr: service.ErrInvalidPickupLocation,
		},
		{
			name: "NaN coordinate",
			input: service.CreateRequestInput{
				CustomerID:  "customer-1",
				Pickup:      pickupSiam,
				Dropoff:     domain.Location{Lat: math.NaN(), Lng: 100},
				VehicleType: string(domain.VehicleTypeStandard),
			},
			wantErr: service.ErrInvalidDropoffLocation,
		},
		{
			name: "unknown vehicle type",
			input: service.CreateRequestInput{
				CustomerID: "customer-1",
				Pickup:     pickupSiam, Dropoff: dropoffChatuchak,
				VehicleType: "spaceship",
			},
			wantErr: service.ErrInvalidVehicleType,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := f.requestSvc.CreateRequest(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateRequest_BackfillsMissingAddress(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")

	geocoder := &StubGeocoder{Address: "123 Rama IV Rd, Bangkok"}
	notifications := service.NewNotificationService(f.sender)
	requestSvc := service.NewRequestService(
		f.requests, f.offers, f.users, f.directory, f.pricing, geocoder, notifications,
	)

	result, err := requestSvc.CreateRequest(context.Background(), service.CreateRequestInput{
		CustomerID:  "customer-1",
		Pickup:      domain.Location{Lat: 13.7455, Lng: 100.5331}, // no address
		Dropoff:     dropoffChatuchak,
		VehicleType: string(domain.VehicleTypeStandard),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Request.Pickup.Address != "123 Rama IV Rd, Bangkok" {
		t.Errorf("pickup address not backfilled, got %q", result.Request.Pickup.Address)
	}
	// Dropoff already had an address; no lookup for it.
	if result.Request.Dropoff.Address != dropoffChatuchak.Address {
		t.Errorf("dropoff address overwritten: %q", result.Request.Dropoff.Address)
	}
	if geocoder.CallCount != 1 {
		t.Errorf("expected 1 geocode call, got %d", geocoder.CallCount)
	}
}

func TestCreateRequest_GeocodeFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")

	geocoder := &StubGeocoder{Err: ErrMockTimeout}
	notifications := service.NewNotificationService(f.sender)
	requestSvc := service.NewRequestService(
		f.requests, f.offers, f.users, f.directory, f.pricing, geocoder, notifications,
	)

	result, err := requestSvc.CreateRequest(context.Background(), service.CreateRequestInput{
		CustomerID:  "customer-1",
		Pickup:      domain.Location{Lat: 13.7455, Lng: 100.5331},
		Dropoff:     dropoffChatuchak,
		VehicleType: string(domain.VehicleTypeStandard),
	})
	if err != nil {
		t.Fatalf("geocode failure must not fail the request: %v", err)
	}
	if result.Request.Pickup.Address != "" {
		t.Errorf("expected empty address after lookup failure, got %q", result.Request.Pickup.Address)
	}
}

// ──────────────────────────────────────────────
// 2. BROWSING OPEN REQUESTS
// ──────────────────────────────────────────────

func TestListAvailable_RequiresApprovedDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.drivers.AddDriver(&domain.Driver{
		ID:             "driver-1",
		ApprovalStatus: domain.ApprovalStatusPending,
		VehicleType:    domain.VehicleTypeStandard,
	})

	_, err := f.requestSvc.ListAvailableRequests(context.Background(), service.ListAvailableInput{
		DriverID: "driver-1",
	})
	if !errors.Is(err, service.ErrDriverNotApproved) {
		t.Errorf("expected ErrDriverNotApproved, got %v", err)
	}
}

func TestListAvailable_FiltersByVehicleType(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addApprovedDriver("driver-1")
	f.addCustomer("customer-1")

	standard := f.addPendingRequest("req-standard", "customer-1")
	van := f.addPendingRequest("req-van", "customer-1")
	van.VehicleType = domain.VehicleTypeVan

	requests, err := f.requestSvc.ListAvailableRequests(context.Background(), service.ListAvailableInput{
		DriverID:    "driver-1",
		VehicleType: string(domain.VehicleTypeVan),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].ID != van.ID {
		t.Errorf("expected %s, got %s", van.ID, requests[0].ID)
	}
	_ = standard
}

func TestListAvailable_ExcludesNonPending(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addApprovedDriver("driver-1")
	f.addCustomer("customer-1")

	f.addPendingRequest("req-1", "customer-1")
	done := f.addPendingRequest("req-2", "customer-1")
	done.Status = domain.RequestStatusCompleted

	requests, err := f.requestSvc.ListAvailableRequests(context.Background(), service.ListAvailableInput{
		DriverID: "driver-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(requests))
	}
	if requests[0].ID != "req-1" {
		t.Errorf("expected req-1, got %s", requests[0].ID)
	}
}

func TestListAvailable_RadiusFilter(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addApprovedDriver("driver-1")
	f.addCustomer("customer-1")

	near := f.addPendingRequest("req-near", "customer-1")
	far := f.addPendingRequest("req-far", "customer-1")
	// Chiang Mai pickup, ~580 km from the driver.
	far.Pickup = domain.Location{Lat: 18.7883, Lng: 98.9853}

	requests, err := f.requestSvc.ListAvailableRequests(context.Background(), service.ListAvailableInput{
		DriverID:  "driver-1",
		OriginLat: 13.7563,
		OriginLng: 100.5018,
		RadiusKm:  20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request within radius, got %d", len(requests))
	}
	if requests[0].ID != near.ID {
		t.Errorf("expected %s, got %s", near.ID, requests[0].ID)
	}
}

func TestListAvailable_MissingOriginDisablesRadiusFilter(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addApprovedDriver("driver-1")
	f.addCustomer("customer-1")

	f.addPendingRequest("req-1", "customer-1")
	far := f.addPendingRequest("req-2", "customer-1")
	far.Pickup = domain.Location{Lat: 18.7883, Lng: 98.9853}

	requests, err := f.requestSvc.ListAvailableRequests(context.Background(), service.ListAvailableInput{
		DriverID:  "driver-1",
		OriginLat: math.NaN(),
		OriginLng: math.NaN(),
		RadiusKm:  20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Distance to an unknown origin cannot be computed; the radius
	// filter must drop out rather than silently exclude everything.
	if len(requests) != 2 {
		t.Errorf("expected 2 requests with unknown origin, got %d", len(requests))
	}
}
