package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// RequestService handles creation and read-side operations on transport
// requests. State transitions after creation belong to NegotiationService.
type RequestService struct {
	requestRepo   repository.RequestRepository
	offerRepo     repository.OfferRepository
	userRepo      repository.UserRepository
	drivers       *DriverDirectory
	pricing       *PricingService
	geocoder      Geocoder
	notifications *NotificationService
}

// NewRequestService creates a new RequestService. geocoder may be nil.
func NewRequestService(
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	userRepo repository.UserRepository,
	drivers *DriverDirectory,
	pricing *PricingService,
	geocoder Geocoder,
	notifications *NotificationService,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		offerRepo:     offerRepo,
		userRepo:      userRepo,
		drivers:       drivers,
		pricing:       pricing,
		geocoder:      geocoder,
		notifications: notifications,
	}
}

// CreateRequestInput contains the parameters for creating a request.
type CreateRequestInput struct {
	CustomerID  string
	Pickup      domain.Location
	Dropoff     domain.Location
	VehicleType string
	BookingTime time.Time // zero means "as soon as possible"
	Message     string
}

// CreateRequestResult contains the created request plus a fare quote.
// A DistanceKm of 0 means the distance is unknown, not that pickup and
// dropoff coincide.
type CreateRequestResult struct {
	Request        *domain.Request
	EstimatedPrice float64
	DistanceKm     float64
	TravelTimeMin  int
}

// CreateRequest validates input, backfills addresses best-effort and
// persists a new pending request.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*CreateRequestResult, error) {
	if input.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if !validCoordinates(input.Pickup.Lat, input.Pickup.Lng) {
		return nil, ErrInvalidPickupLocation
	}
	if !validCoordinates(input.Dropoff.Lat, input.Dropoff.Lng) {
		return nil, ErrInvalidDropoffLocation
	}
	if !domain.ValidVehicleType(input.VehicleType) {
		return nil, ErrInvalidVehicleType
	}

	if _, err := s.userRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	pickup := s.fillAddress(ctx, input.Pickup)
	dropoff := s.fillAddress(ctx, input.Dropoff)

	request := &domain.Request{
		ID:              uuid.New().String(),
		CustomerID:      input.CustomerID,
		Pickup:          pickup,
		Dropoff:         dropoff,
		VehicleType:     domain.VehicleType(input.VehicleType),
		Status:          domain.RequestStatusPending,
		BookingTime:     input.BookingTime,
		CustomerMessage: input.Message,
		CreatedAt:       time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	distance := s.pricing.Distance(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)

	return &CreateRequestResult{
		Request:        request,
		EstimatedPrice: s.pricing.Estimate(distance, request.VehicleType),
		DistanceKm:     distance,
		TravelTimeMin:  s.pricing.TravelTimeMinutes(distance),
	}, nil
}

// GetRequest retrieves a request and its offers.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.Request, []*domain.Offer, error) {
	if requestID == "" {
		return nil, nil, ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	offers, err := s.offerRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	return request, offers, nil
}

// ListAvailableInput contains the filters for listing open requests.
type ListAvailableInput struct {
	DriverID    string
	VehicleType string  // optional
	OriginLat   float64 // optional, NaN when absent
	OriginLng   float64
	RadiusKm    float64 // optional, 0 disables the radius filter
}

// ListAvailableRequests retrieves pending requests an approved driver
// may offer on, optionally filtered by vehicle type and pickup radius.
// This is a read-only view and may observe slightly stale state.
func (s *RequestService) ListAvailableRequests(ctx context.Context, input ListAvailableInput) ([]*domain.Request, error) {
	if _, err := s.drivers.RequireApproved(ctx, input.DriverID); err != nil {
		return nil, err
	}

	if input.VehicleType != "" && !domain.ValidVehicleType(input.VehicleType) {
		return nil, ErrInvalidVehicleType
	}

	requests, err := s.requestRepo.ListPending(ctx, domain.VehicleType(input.VehicleType))
	if err != nil {
		return nil, err
	}

	if input.RadiusKm <= 0 || !validCoordinates(input.OriginLat, input.OriginLng) {
		return requests, nil
	}

	filtered := make([]*domain.Request, 0, len(requests))
	for _, request := range requests {
		distance := s.pricing.Distance(input.OriginLat, input.OriginLng, request.Pickup.Lat, request.Pickup.Lng)
		if distance <= input.RadiusKm {
			filtered = append(filtered, request)
		}
	}
	return filtered, nil
}

// fillAddress resolves an address for a coordinate-only location.
// Lookup failures keep the location as-is.
func (s *RequestService) fillAddress(ctx context.Context, loc domain.Location) domain.Location {
	if loc.Address != "" || s.geocoder == nil {
		return loc
	}

	address, err := s.geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lng)
	if err != nil || address == "" {
		return loc
	}

	loc.Address = address
	return loc
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
