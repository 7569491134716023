package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// OfferHandler handles HTTP requests for offers.
type OfferHandler struct {
	negotiationService *service.NegotiationService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(negotiationService *service.NegotiationService) *OfferHandler {
	return &OfferHandler{negotiationService: negotiationService}
}

// CreateOfferBody is the HTTP request body for submitting an offer.
type CreateOfferBody struct {
	DriverID string  `json:"driver_id"`
	Price    float64 `json:"price"`
}

// OfferResponse is the HTTP representation of an offer.
type OfferResponse struct {
	ID           string  `json:"id"`
	RequestID    string  `json:"request_id"`
	DriverID     string  `json:"driver_id"`
	OfferedPrice float64 `json:"offered_price"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// Create handles POST /v1/requests/:id/offers
func (h *OfferHandler) Create(c *gin.Context) {
	var body CreateOfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	offer, err := h.negotiationService.CreateOffer(c.Request.Context(), service.CreateOfferInput{
		RequestID: c.Param("id"),
		DriverID:  body.DriverID,
		Price:     body.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOfferResponse(offer))
}

// AcceptOfferBody is the HTTP request body for accepting an offer.
type AcceptOfferBody struct {
	CustomerID       string `json:"customer_id"`
	OfferID          string `json:"offer_id"`
	PaymentMethodRef string `json:"payment_method_ref"`
}

// Accept handles POST /v1/requests/:id/accept
func (h *OfferHandler) Accept(c *gin.Context) {
	var body AcceptOfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.negotiationService.AcceptOffer(c.Request.Context(), service.AcceptOfferInput{
		RequestID:        c.Param("id"),
		CustomerID:       body.CustomerID,
		OfferID:          body.OfferID,
		PaymentMethodRef: body.PaymentMethodRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"request": toRequestResponse(result.Request),
		"payment": toPaymentResponse(result.Payment),
	})
}

// CancelOfferBody is the HTTP request body for withdrawing an offer.
type CancelOfferBody struct {
	DriverID string `json:"driver_id"`
}

// Cancel handles POST /v1/offers/:id/cancel
func (h *OfferHandler) Cancel(c *gin.Context) {
	var body CancelOfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	offer, err := h.negotiationService.CancelOffer(c.Request.Context(), c.Param("id"), body.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOfferResponse(offer))
}

func toOfferResponse(offer *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:           offer.ID,
		RequestID:    offer.RequestID,
		DriverID:     offer.DriverID,
		OfferedPrice: offer.OfferedPrice,
		Status:       string(offer.Status),
		CreatedAt:    offer.CreatedAt.Format(time.RFC3339),
	}
}
