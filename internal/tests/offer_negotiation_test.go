package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// ──────────────────────────────────────────────
// 3. OFFER SUBMISSION
// ──────────────────────────────────────────────

func TestCreateOffer_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")

	offer, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
		RequestID: "req-1",
		DriverID:  "driver-1",
		Price:     150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offer.Status != domain.OfferStatusPending {
		t.Errorf("expected status %s, got %s", domain.OfferStatusPending, offer.Status)
	}
	if offer.OfferedPrice != 150 {
		t.Errorf("expected price 150, got %f", offer.OfferedPrice)
	}

	// The customer is told about the new offer.
	if f.sender.CountByEvent(service.EventOfferReceived) != 1 {
		t.Error("expected OFFER_RECEIVED notification for the customer")
	}
	sent := f.sender.Sent()
	if sent[0].UserID != "customer-1" {
		t.Errorf("notification went to %s, want customer-1", sent[0].UserID)
	}
}

func TestCreateOffer_UnapprovedDriverRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addPendingRequest("req-1", "customer-1")

	for _, status := range []domain.ApprovalStatus{
		domain.ApprovalStatusPending,
		domain.ApprovalStatusSuspended,
	} {
		f.drivers.AddDriver(&domain.Driver{
			ID:             "driver-" + string(status),
			ApprovalStatus: status,
			VehicleType:    domain.VehicleTypeStandard,
		})

		_, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
			RequestID: "req-1",
			DriverID:  "driver-" + string(status),
			Price:     100,
		})
		if !errors.Is(err, service.ErrDriverNotApproved) {
			t.Errorf("status %s: expected ErrDriverNotApproved, got %v", status, err)
		}
	}

	if f.offers.CountOffers() != 0 {
		t.Error("no offer row may exist for an unapproved driver")
	}
}

func TestCreateOffer_NonPendingRequestRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	request := f.addPendingRequest("req-1", "customer-1")
	request.Status = domain.RequestStatusCancelled

	_, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
		RequestID: "req-1",
		DriverID:  "driver-1",
		Price:     100,
	})
	if !errors.Is(err, service.ErrRequestNotPending) {
		t.Errorf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestCreateOffer_InvalidPriceRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")

	for _, price := range []float64{0, -50} {
		_, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
			RequestID: "req-1",
			DriverID:  "driver-1",
			Price:     price,
		})
		if !errors.Is(err, service.ErrInvalidPrice) {
			t.Errorf("price %f: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestCreateOffer_DuplicateActiveOfferRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")
	f.addPendingOffer("offer-1", "req-1", "driver-1", 150)

	_, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
		RequestID: "req-1",
		DriverID:  "driver-1",
		Price:     120,
	})
	if !errors.Is(err, service.ErrDuplicateOffer) {
		t.Errorf("expected ErrDuplicateOffer, got %v", err)
	}

	// The original offer is untouched.
	if f.offers.GetOffer("offer-1").OfferedPrice != 150 {
		t.Error("existing offer must not be modified by a rejected duplicate")
	}
	if f.offers.CountOffers() != 1 {
		t.Errorf("expected 1 offer row, got %d", f.offers.CountOffers())
	}
}

func TestCreateOffer_ReofferAfterRejectionReusesRow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")
	rejected := f.addPendingOffer("offer-1", "req-1", "driver-1", 150)
	rejected.Status = domain.OfferStatusRejected

	offer, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
		RequestID: "req-1",
		DriverID:  "driver-1",
		Price:     130,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offer.ID != "offer-1" {
		t.Errorf("expected re-opened row offer-1, got %s", offer.ID)
	}
	if offer.Status != domain.OfferStatusPending {
		t.Errorf("expected status %s, got %s", domain.OfferStatusPending, offer.Status)
	}
	if offer.OfferedPrice != 130 {
		t.Errorf("expected fresh price 130, got %f", offer.OfferedPrice)
	}

	// One driver, one request, still exactly one row.
	if f.offers.CountOffers() != 1 {
		t.Errorf("expected 1 offer row after re-offer, got %d", f.offers.CountOffers())
	}
}

func TestCreateOffer_RacingSameDriverOfferKeepsOneRow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")

	// Between the pre-checks and the transaction, another submission
	// from the same driver commits. The in-transaction lookup must see
	// it and refuse a second row.
	racing := &raceTxRunner{
		inner: f.tx,
		before: func() {
			f.offers.AddOffer(&domain.Offer{
				ID:           "offer-race",
				RequestID:    "req-1",
				DriverID:     "driver-1",
				OfferedPrice: 160,
				Status:       domain.OfferStatusPending,
			})
		},
	}
	notifications := service.NewNotificationService(f.sender)
	negotiation := service.NewNegotiationService(
		racing, f.requests, f.offers, f.receipts, f.directory, f.pricing, notifications,
	)

	_, err := negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
		RequestID: "req-1",
		DriverID:  "driver-1",
		Price:     150,
	})
	if !errors.Is(err, service.ErrDuplicateOffer) {
		t.Fatalf("expected ErrDuplicateOffer, got %v", err)
	}

	if f.offers.CountOffers() != 1 {
		t.Errorf("expected 1 offer row, got %d", f.offers.CountOffers())
	}
	if n := f.offers.CountByStatus("req-1", domain.OfferStatusPending); n != 1 {
		t.Errorf("driver-1 holds %d pending offers for req-1, want 1", n)
	}
	if f.offers.GetOffer("offer-race").OfferedPrice != 160 {
		t.Error("the winning submission must be untouched")
	}
}

func TestCreateOffer_ConcurrentSameDriverSubmissionsInsertOneRow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, price := range []float64{140, 160} {
		wg.Add(1)
		go func(i int, price float64) {
			defer wg.Done()
			_, err := f.negotiation.CreateOffer(context.Background(), service.CreateOfferInput{
				RequestID: "req-1",
				DriverID:  "driver-1",
				Price:     price,
			})
			results[i] = err
		}(i, price)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, service.ErrDuplicateOffer):
		default:
			t.Errorf("unexpected loser error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful submission, got %d", successes)
	}

	if f.offers.CountOffers() != 1 {
		t.Errorf("expected exactly 1 offer row, got %d", f.offers.CountOffers())
	}
}

// ──────────────────────────────────────────────
// 4. OFFER WITHDRAWAL
// ──────────────────────────────────────────────

func TestCancelOffer_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")
	f.addPendingOffer("offer-1", "req-1", "driver-1", 150)

	offer, err := f.negotiation.CancelOffer(context.Background(), "offer-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offer.Status != domain.OfferStatusRejected {
		t.Errorf("expected status %s, got %s", domain.OfferStatusRejected, offer.Status)
	}
	if f.sender.CountByEvent(service.EventOfferWithdrawn) != 1 {
		t.Error("expected OFFER_WITHDRAWN notification for the customer")
	}
}

func TestCancelOffer_WrongDriverGetsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")
	f.addPendingOffer("offer-1", "req-1", "driver-1", 150)

	// Another driver probing someone else's offer learns nothing.
	_, err := f.negotiation.CancelOffer(context.Background(), "offer-1", "driver-2")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if f.offers.GetOffer("offer-1").Status != domain.OfferStatusPending {
		t.Error("offer must stay pending after a failed withdrawal")
	}
}

func TestCancelOffer_NonPendingRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addCustomer("customer-1")
	f.addApprovedDriver("driver-1")
	f.addPendingRequest("req-1", "customer-1")
	accepted := f.addPendingOffer("offer-1", "req-1", "driver-1", 150)
	accepted.Status = domain.OfferStatusAccepted

	_, err := f.negotiation.CancelOffer(context.Background(), "offer-1", "driver-1")
	if !errors.Is(err, service.ErrOfferNotPending) {
		t.Errorf("expected ErrOfferNotPending, got %v", err)
	}
}
