package tests

import (
	"context"
	"testing"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// Bangkok coordinates used across the negotiation tests.
var (
	pickupSiam       = domain.Location{Lat: 13.7455, Lng: 100.5331, Address: "Siam Square"}
	dropoffChatuchak = domain.Location{Lat: 13.7997, Lng: 100.5536, Address: "Chatuchak Market"}
)

// fixture wires the full negotiation stack over in-memory mocks.
type fixture struct {
	requests *MockRequestRepository
	offers   *MockOfferRepository
	payments *MockPaymentRepository
	receipts *MockReceiptRepository
	drivers  *MockDriverRepository
	users    *MockUserRepository
	cache    *MockDriverCache
	sender   *RecordingSender
	tx       *MockTxRunner

	pricing     *service.PricingService
	directory   *service.DriverDirectory
	requestSvc  *service.RequestService
	negotiation *service.NegotiationService
}

func newFixture() *fixture {
	f := &fixture{
		requests: NewMockRequestRepository(),
		offers:   NewMockOfferRepository(),
		payments: NewMockPaymentRepository(),
		receipts: NewMockReceiptRepository(),
		drivers:  NewMockDriverRepository(),
		users:    NewMockUserRepository(),
		cache:    NewMockDriverCache(),
		sender:   NewRecordingSender(),
	}
	f.tx = NewMockTxRunner(f.requests, f.offers, f.payments, f.receipts)
	f.pricing = service.NewPricingService(nil)
	f.directory = service.NewDriverDirectory(f.drivers, f.cache)
	notifications := service.NewNotificationService(f.sender)
	f.requestSvc = service.NewRequestService(
		f.requests, f.offers, f.users, f.directory, f.pricing, nil, notifications,
	)
	f.negotiation = service.NewNegotiationService(
		f.tx, f.requests, f.offers, f.receipts, f.directory, f.pricing, notifications,
	)
	return f
}

func (f *fixture) addCustomer(id string) {
	f.users.AddUser(&domain.User{
		ID:        id,
		Name:      "Customer " + id,
		Phone:     "08" + id,
		CreatedAt: time.Now(),
	})
}

func (f *fixture) addApprovedDriver(id string) {
	f.drivers.AddDriver(&domain.Driver{
		ID:             id,
		Name:           "Driver " + id,
		Phone:          "09" + id,
		ApprovalStatus: domain.ApprovalStatusApproved,
		VehicleType:    domain.VehicleTypeStandard,
		CreatedAt:      time.Now(),
	})
}

func (f *fixture) addPendingRequest(id, customerID string) *domain.Request {
	request := &domain.Request{
		ID:          id,
		CustomerID:  customerID,
		Pickup:      pickupSiam,
		Dropoff:     dropoffChatuchak,
		VehicleType: domain.VehicleTypeStandard,
		Status:      domain.RequestStatusPending,
		CreatedAt:   time.Now(),
	}
	f.requests.AddRequest(request)
	return request
}

func (f *fixture) addPendingOffer(id, requestID, driverID string, price float64) *domain.Offer {
	offer := &domain.Offer{
		ID:           id,
		RequestID:    requestID,
		DriverID:     driverID,
		OfferedPrice: price,
		Status:       domain.OfferStatusPending,
		CreatedAt:    time.Now(),
	}
	f.offers.AddOffer(offer)
	return offer
}

// mustAccept accepts an offer and fails the test on error.
func (f *fixture) mustAccept(t *testing.T, requestID, customerID, offerID string) *service.AcceptOfferResult {
	t.Helper()
	result, err := f.negotiation.AcceptOffer(context.Background(), service.AcceptOfferInput{
		RequestID:        requestID,
		CustomerID:       customerID,
		OfferID:          offerID,
		PaymentMethodRef: "pm_test",
	})
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	return result
}
