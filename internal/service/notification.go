package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
)

// EventType identifies the kind of notification being sent.
type EventType string

const (
	EventOfferReceived    EventType = "OFFER_RECEIVED"
	EventOfferAccepted    EventType = "OFFER_ACCEPTED"
	EventOfferRejected    EventType = "OFFER_REJECTED"
	EventOfferWithdrawn   EventType = "OFFER_WITHDRAWN"
	EventRequestCancelled EventType = "REQUEST_CANCELLED"
	EventRequestCompleted EventType = "REQUEST_COMPLETED"
	EventReceiptReady     EventType = "RECEIPT_READY"
)

// Sender delivers a single notification to a user. Implementations may
// push, SMS or email; delivery failures are the sender's problem and
// never propagate into the operation that triggered the notification.
type Sender interface {
	Send(ctx context.Context, userID string, event EventType, payload map[string]any) error
}

// logSender writes notifications to the process log. It stands in for
// the real push/SMS pipeline, which lives outside this service.
type logSender struct{}

func (logSender) Send(ctx context.Context, userID string, event EventType, payload map[string]any) error {
	log.Printf("[NOTIFICATION] Event=%s, Recipient=%s, Payload=%v", event, userID, payload)
	return nil
}

// NotificationService builds and dispatches the fire-and-forget
// notifications emitted by the negotiation flow.
type NotificationService struct {
	sender Sender
}

// NewNotificationService creates a NotificationService. A nil sender
// selects the log-based one.
func NewNotificationService(sender Sender) *NotificationService {
	if sender == nil {
		sender = logSender{}
	}
	return &NotificationService{sender: sender}
}

// NotifyOfferReceived tells the customer a driver has offered a price.
func (s *NotificationService) NotifyOfferReceived(ctx context.Context, customerID string, offer *domain.Offer) error {
	return s.send(ctx, customerID, EventOfferReceived, map[string]any{
		"request_id": offer.RequestID,
		"offer_id":   offer.ID,
		"driver_id":  offer.DriverID,
		"price":      offer.OfferedPrice,
	})
}

// NotifyOfferAccepted tells the driver their offer won.
func (s *NotificationService) NotifyOfferAccepted(ctx context.Context, driverID string, offer *domain.Offer) error {
	return s.send(ctx, driverID, EventOfferAccepted, map[string]any{
		"request_id": offer.RequestID,
		"offer_id":   offer.ID,
		"price":      offer.OfferedPrice,
	})
}

// NotifyOfferRejected tells a driver their offer lost out to another
// bid.
func (s *NotificationService) NotifyOfferRejected(ctx context.Context, driverID string, offer *domain.Offer) error {
	return s.send(ctx, driverID, EventOfferRejected, map[string]any{
		"request_id": offer.RequestID,
		"offer_id":   offer.ID,
	})
}

// NotifyBookingConfirmed tells the customer their acceptance went
// through.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, customerID string, request *domain.Request, payment *domain.Payment) error {
	return s.send(ctx, customerID, EventOfferAccepted, map[string]any{
		"request_id": request.ID,
		"offer_id":   request.AcceptedOfferID,
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	})
}

// NotifyOfferWithdrawn tells the customer a driver withdrew an offer.
func (s *NotificationService) NotifyOfferWithdrawn(ctx context.Context, customerID string, offer *domain.Offer) error {
	return s.send(ctx, customerID, EventOfferWithdrawn, map[string]any{
		"request_id": offer.RequestID,
		"offer_id":   offer.ID,
	})
}

// NotifyRequestCancelled tells a driver the request they were engaged
// with was cancelled.
func (s *NotificationService) NotifyRequestCancelled(ctx context.Context, driverID string, request *domain.Request) error {
	return s.send(ctx, driverID, EventRequestCancelled, map[string]any{
		"request_id": request.ID,
	})
}

// NotifyRequestCompleted tells the customer their trip is completed and
// the receipt is available.
func (s *NotificationService) NotifyRequestCompleted(ctx context.Context, customerID string, request *domain.Request, receipt *domain.Receipt) error {
	if err := s.send(ctx, customerID, EventRequestCompleted, map[string]any{
		"request_id": request.ID,
	}); err != nil {
		return err
	}
	return s.send(ctx, customerID, EventReceiptReady, map[string]any{
		"request_id":  request.ID,
		"receipt_id":  receipt.ID,
		"price":       receipt.Price,
		"distance_km": receipt.DistanceKm,
	})
}

func (s *NotificationService) send(ctx context.Context, userID string, event EventType, payload map[string]any) error {
	payload["sent_at"] = time.Now().Format(time.RFC3339)
	if err := s.sender.Send(ctx, userID, event, payload); err != nil {
		return fmt.Errorf("send %s to %s: %w", event, userID, err)
	}
	return nil
}
