package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// NegotiationService owns the request/offer state machines and every
// transition between their states. All writes against Request and Offer
// rows go through conditioned updates inside a single transaction: the
// first committed writer wins a contested transition and every later
// writer observes zero affected rows, rolls back and reports
// ErrTransitionConflict.
type NegotiationService struct {
	tx            repository.TxRunner
	requestRepo   repository.RequestRepository
	offerRepo     repository.OfferRepository
	receiptRepo   repository.ReceiptRepository
	drivers       *DriverDirectory
	pricing       *PricingService
	notifications *NotificationService
}

// NewNegotiationService creates a new NegotiationService.
func NewNegotiationService(
	tx repository.TxRunner,
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	receiptRepo repository.ReceiptRepository,
	drivers *DriverDirectory,
	pricing *PricingService,
	notifications *NotificationService,
) *NegotiationService {
	return &NegotiationService{
		tx:            tx,
		requestRepo:   requestRepo,
		offerRepo:     offerRepo,
		receiptRepo:   receiptRepo,
		drivers:       drivers,
		pricing:       pricing,
		notifications: notifications,
	}
}

// CreateOfferInput contains the parameters for submitting an offer.
type CreateOfferInput struct {
	RequestID string
	DriverID  string
	Price     float64
}

// CreateOffer submits a driver's price offer against a pending request.
// A driver re-offering after rejection re-opens their existing row; a
// driver with a pending or accepted offer gets a conflict.
func (s *NegotiationService) CreateOffer(ctx context.Context, input CreateOfferInput) (*domain.Offer, error) {
	if input.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	if _, err := s.drivers.RequireApproved(ctx, input.DriverID); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	var offer *domain.Offer
	err = s.tx.InTx(ctx, func(st repository.Stores) error {
		// The lookup and the reopen-vs-insert decision share the
		// transaction, and the unique (request_id, driver_id) index
		// backs them up: a concurrent offer from the same driver either
		// shows up in this read or fails the insert.
		existing, err := st.Offers.GetByRequestAndDriver(ctx, input.RequestID, input.DriverID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if existing == nil {
			offer = &domain.Offer{
				ID:           uuid.New().String(),
				RequestID:    input.RequestID,
				DriverID:     input.DriverID,
				OfferedPrice: input.Price,
				Status:       domain.OfferStatusPending,
				CreatedAt:    time.Now(),
			}
			if err := st.Offers.Create(ctx, offer); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return ErrDuplicateOffer
				}
				return err
			}
			return nil
		}

		if existing.Status != domain.OfferStatusRejected {
			return ErrDuplicateOffer
		}

		// Re-offer after rejection reuses the row, so one driver can
		// never hold two offers against the same request.
		now := time.Now()
		if err := st.Offers.Reopen(ctx, existing.ID, input.Price, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrDuplicateOffer
			}
			return err
		}

		offer = existing
		offer.OfferedPrice = input.Price
		offer.Status = domain.OfferStatusPending
		offer.CreatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifications.NotifyOfferReceived(ctx, request.CustomerID, offer)

	return offer, nil
}

// AcceptOfferInput contains the parameters for accepting an offer.
type AcceptOfferInput struct {
	RequestID        string
	CustomerID       string
	OfferID          string
	PaymentMethodRef string
}

// AcceptOfferResult contains the accepted request and its payment.
type AcceptOfferResult struct {
	Request *domain.Request
	Payment *domain.Payment
}

// AcceptOffer accepts one offer on behalf of the owning customer. In a
// single transaction it creates the payment, conditionally moves the
// request to accepted and the offer to accepted, and rejects every
// sibling pending offer. Losing a race with a concurrent accept or
// cancel rolls everything back and reports ErrTransitionConflict.
func (s *NegotiationService) AcceptOffer(ctx context.Context, input AcceptOfferInput) (*AcceptOfferResult, error) {
	if input.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if input.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if input.OfferID == "" {
		return nil, ErrInvalidOfferID
	}
	if input.PaymentMethodRef == "" {
		return nil, ErrInvalidPaymentMethodRef
	}

	request, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != input.CustomerID {
		return nil, repository.ErrNotFound
	}
	if request.Status != domain.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	offer, err := s.offerRepo.GetByID(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.RequestID != input.RequestID {
		return nil, repository.ErrNotFound
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, ErrOfferNotPending
	}

	// Losing bidders hear about it after commit; capture them before
	// the transaction rejects their rows.
	siblings, _ := s.offerRepo.ListByRequest(ctx, request.ID)

	payment := &domain.Payment{
		ID:               uuid.New().String(),
		CustomerID:       input.CustomerID,
		Amount:           offer.OfferedPrice,
		Status:           domain.PaymentStatusPending,
		PaymentMethodRef: input.PaymentMethodRef,
		CreatedAt:        time.Now(),
	}

	err = s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Payments.Create(ctx, payment); err != nil {
			return err
		}

		// Both conditioned updates re-check status inside the
		// transaction; a lost race surfaces as ErrConflict and undoes
		// the payment insert.
		if err := st.Requests.MarkAccepted(ctx, request.ID, offer.ID, payment.ID); err != nil {
			return err
		}
		if err := st.Offers.MarkAccepted(ctx, offer.ID); err != nil {
			return err
		}

		return st.Offers.RejectPendingByRequest(ctx, request.ID, offer.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		return nil, err
	}

	request.Status = domain.RequestStatusAccepted
	request.AcceptedOfferID = offer.ID
	request.PaymentID = payment.ID
	offer.Status = domain.OfferStatusAccepted

	_ = s.notifications.NotifyBookingConfirmed(ctx, request.CustomerID, request, payment)
	_ = s.notifications.NotifyOfferAccepted(ctx, offer.DriverID, offer)
	for _, sibling := range siblings {
		if sibling.ID == offer.ID || sibling.Status != domain.OfferStatusPending {
			continue
		}
		_ = s.notifications.NotifyOfferRejected(ctx, sibling.DriverID, sibling)
	}

	return &AcceptOfferResult{Request: request, Payment: payment}, nil
}

// CancelRequest cancels a pending or accepted request on behalf of the
// owning customer. Still-pending offers are rejected. Cancelling an
// already-accepted request additionally voids the pending payment and
// notifies the assigned driver; the accepted offer row is kept as
// history.
func (s *NegotiationService) CancelRequest(ctx context.Context, requestID, customerID string) (*domain.Request, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != customerID {
		return nil, repository.ErrNotFound
	}
	if request.Status != domain.RequestStatusPending && request.Status != domain.RequestStatusAccepted {
		return nil, ErrRequestNotCancellable
	}

	wasAccepted := request.Status == domain.RequestStatusAccepted

	err = s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Requests.MarkCancelled(ctx, request.ID); err != nil {
			return err
		}
		if err := st.Offers.RejectPendingByRequest(ctx, request.ID, ""); err != nil {
			return err
		}
		if wasAccepted && request.PaymentID != "" {
			return st.Payments.UpdateStatus(ctx, request.PaymentID, domain.PaymentStatusFailed)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		return nil, err
	}

	request.Status = domain.RequestStatusCancelled

	if wasAccepted && request.AcceptedOfferID != "" {
		if offer, err := s.offerRepo.GetByID(ctx, request.AcceptedOfferID); err == nil {
			_ = s.notifications.NotifyRequestCancelled(ctx, offer.DriverID, request)
		}
	}

	return request, nil
}

// CancelOffer withdraws a driver's still-pending offer.
func (s *NegotiationService) CancelOffer(ctx context.Context, offerID, driverID string) (*domain.Offer, error) {
	if offerID == "" {
		return nil, ErrInvalidOfferID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.DriverID != driverID {
		return nil, repository.ErrNotFound
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, ErrOfferNotPending
	}

	err = s.tx.InTx(ctx, func(st repository.Stores) error {
		return st.Offers.MarkRejected(ctx, offer.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		return nil, err
	}

	offer.Status = domain.OfferStatusRejected

	if request, err := s.requestRepo.GetByID(ctx, offer.RequestID); err == nil {
		_ = s.notifications.NotifyOfferWithdrawn(ctx, request.CustomerID, offer)
	}

	return offer, nil
}

// CompleteRequestResult contains the completed request and its receipt.
type CompleteRequestResult struct {
	Request *domain.Request
	Receipt *domain.Receipt
}

// CompleteRequest finishes an accepted request. The caller must be the
// accepted driver or the owning customer. In a single transaction the
// request moves to completed, the payment to Completed, and a receipt
// snapshot is inserted; the unique request_id constraint keeps retried
// completions from creating a second receipt.
func (s *NegotiationService) CompleteRequest(ctx context.Context, requestID, callerID string) (*CompleteRequestResult, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if callerID == "" {
		return nil, ErrInvalidCustomerID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusAccepted {
		return nil, ErrRequestNotAccepted
	}

	offer, err := s.offerRepo.GetByID(ctx, request.AcceptedOfferID)
	if err != nil {
		return nil, err
	}
	if callerID != offer.DriverID && callerID != request.CustomerID {
		return nil, ErrNotParticipant
	}

	distance := s.pricing.Distance(
		request.Pickup.Lat, request.Pickup.Lng,
		request.Dropoff.Lat, request.Dropoff.Lng,
	)

	now := time.Now()
	receipt := &domain.Receipt{
		ID:            uuid.New().String(),
		RequestID:     request.ID,
		CustomerID:    request.CustomerID,
		DriverID:      offer.DriverID,
		Price:         offer.OfferedPrice,
		DistanceKm:    distance,
		TravelTimeMin: s.pricing.TravelTimeMinutes(distance),
		Pickup:        request.Pickup,
		Dropoff:       request.Dropoff,
		VehicleType:   request.VehicleType,
		CompletedAt:   now,
		CreatedAt:     now,
	}

	err = s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Requests.MarkCompleted(ctx, request.ID); err != nil {
			return err
		}
		if err := st.Payments.UpdateStatus(ctx, request.PaymentID, domain.PaymentStatusCompleted); err != nil {
			return err
		}
		return st.Receipts.Create(ctx, receipt)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTransitionConflict
		}
		return nil, err
	}

	request.Status = domain.RequestStatusCompleted

	// The winning completion inserted its receipt; re-read in case an
	// earlier partial attempt left one behind.
	if stored, err := s.receiptRepo.GetByRequestID(ctx, request.ID); err == nil {
		receipt = stored
	}

	_ = s.notifications.NotifyRequestCompleted(ctx, request.CustomerID, request, receipt)

	return &CompleteRequestResult{Request: request, Receipt: receipt}, nil
}
