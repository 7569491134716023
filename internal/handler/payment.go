package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// PaymentHandler handles HTTP requests for payments and receipts.
type PaymentHandler struct {
	paymentRepo repository.PaymentRepository
	receiptRepo repository.ReceiptRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentRepo repository.PaymentRepository, receiptRepo repository.ReceiptRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
		receiptRepo: receiptRepo,
	}
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID               string  `json:"id"`
	CustomerID       string  `json:"customer_id"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
	PaymentMethodRef string  `json:"payment_method_ref"`
	CreatedAt        string  `json:"created_at"`
}

// ReceiptResponse is the HTTP representation of a receipt.
type ReceiptResponse struct {
	ID            string          `json:"id"`
	RequestID     string          `json:"request_id"`
	CustomerID    string          `json:"customer_id"`
	DriverID      string          `json:"driver_id"`
	Price         float64         `json:"price"`
	DistanceKm    float64         `json:"distance_km"`
	TravelTimeMin int             `json:"travel_time_min"`
	Pickup        LocationPayload `json:"pickup"`
	Dropoff       LocationPayload `json:"dropoff"`
	VehicleType   string          `json:"vehicle_type"`
	CompletedAt   string          `json:"completed_at"`
}

// Get handles GET /v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, 200, toPaymentResponse(payment))
}

// GetReceipt handles GET /v1/requests/:id/receipt
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptRepo.GetByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, 200, toReceiptResponse(receipt))
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               payment.ID,
		CustomerID:       payment.CustomerID,
		Amount:           payment.Amount,
		Status:           string(payment.Status),
		PaymentMethodRef: payment.PaymentMethodRef,
		CreatedAt:        payment.CreatedAt.Format(time.RFC3339),
	}
}

func toReceiptResponse(receipt *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            receipt.ID,
		RequestID:     receipt.RequestID,
		CustomerID:    receipt.CustomerID,
		DriverID:      receipt.DriverID,
		Price:         receipt.Price,
		DistanceKm:    receipt.DistanceKm,
		TravelTimeMin: receipt.TravelTimeMin,
		Pickup: LocationPayload{
			Lat:     receipt.Pickup.Lat,
			Lng:     receipt.Pickup.Lng,
			Address: receipt.Pickup.Address,
		},
		Dropoff: LocationPayload{
			Lat:     receipt.Dropoff.Lat,
			Lng:     receipt.Dropoff.Lng,
			Address: receipt.Dropoff.Address,
		},
		VehicleType: string(receipt.VehicleType),
		CompletedAt: receipt.CompletedAt.Format(time.RFC3339),
	}
}
