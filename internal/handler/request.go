package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// RequestHandler handles HTTP requests for transport requests.
type RequestHandler struct {
	requestService     *service.RequestService
	negotiationService *service.NegotiationService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, negotiationService *service.NegotiationService) *RequestHandler {
	return &RequestHandler{
		requestService:     requestService,
		negotiationService: negotiationService,
	}
}

// LocationPayload is a lat/lng pair with an optional address.
type LocationPayload struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// CreateRequestBody is the HTTP request body for creating a request.
type CreateRequestBody struct {
	CustomerID  string          `json:"customer_id"`
	Pickup      LocationPayload `json:"pickup"`
	Dropoff     LocationPayload `json:"dropoff"`
	VehicleType string          `json:"vehicle_type"`
	BookingTime string          `json:"booking_time,omitempty"` // RFC3339
	Message     string          `json:"message,omitempty"`
}

// RequestResponse is the HTTP representation of a request.
type RequestResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Pickup          LocationPayload `json:"pickup"`
	Dropoff         LocationPayload `json:"dropoff"`
	VehicleType     string          `json:"vehicle_type"`
	Status          string          `json:"status"`
	AcceptedOfferID string          `json:"accepted_offer_id,omitempty"`
	PaymentID       string          `json:"payment_id,omitempty"`
	BookingTime     string          `json:"booking_time,omitempty"`
	Message         string          `json:"message,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// CreateRequestResponse adds the fare quote to the created request.
type CreateRequestResponse struct {
	RequestResponse
	EstimatedPrice float64 `json:"estimated_price"`
	DistanceKm     float64 `json:"distance_km"`
	TravelTimeMin  int     `json:"travel_time_min"`
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var bookingTime time.Time
	if body.BookingTime != "" {
		parsed, err := time.Parse(time.RFC3339, body.BookingTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking_time, expected RFC3339"})
			return
		}
		bookingTime = parsed
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestInput{
		CustomerID:  body.CustomerID,
		Pickup:      domain.Location{Lat: body.Pickup.Lat, Lng: body.Pickup.Lng, Address: body.Pickup.Address},
		Dropoff:     domain.Location{Lat: body.Dropoff.Lat, Lng: body.Dropoff.Lng, Address: body.Dropoff.Address},
		VehicleType: body.VehicleType,
		BookingTime: bookingTime,
		Message:     body.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateRequestResponse{
		RequestResponse: toRequestResponse(result.Request),
		EstimatedPrice:  result.EstimatedPrice,
		DistanceKm:      result.DistanceKm,
		TravelTimeMin:   result.TravelTimeMin,
	})
}

// Get handles GET /v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	request, offers, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	offerResponses := make([]OfferResponse, 0, len(offers))
	for _, offer := range offers {
		offerResponses = append(offerResponses, toOfferResponse(offer))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"request": toRequestResponse(request),
		"offers":  offerResponses,
	})
}

// ListAvailable handles GET /v1/requests/available
func (h *RequestHandler) ListAvailable(c *gin.Context) {
	input := service.ListAvailableInput{
		DriverID:    c.Query("driver_id"),
		VehicleType: c.Query("vehicle_type"),
		OriginLat:   queryFloat(c, "origin_lat"),
		OriginLng:   queryFloat(c, "origin_lng"),
		RadiusKm:    queryFloat(c, "radius_km"),
	}

	requests, err := h.requestService.ListAvailableRequests(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toRequestResponse(request))
	}
	respondJSON(c, http.StatusOK, responses)
}

// CancelRequestBody is the HTTP request body for cancelling a request.
type CancelRequestBody struct {
	CustomerID string `json:"customer_id"`
}

// Cancel handles POST /v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	var body CancelRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.negotiationService.CancelRequest(c.Request.Context(), c.Param("id"), body.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// CompleteRequestBody is the HTTP request body for completing a request.
type CompleteRequestBody struct {
	CallerID string `json:"caller_id"`
}

// Complete handles POST /v1/requests/:id/complete
func (h *RequestHandler) Complete(c *gin.Context) {
	var body CompleteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.negotiationService.CompleteRequest(c.Request.Context(), c.Param("id"), body.CallerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"request": toRequestResponse(result.Request),
		"receipt": toReceiptResponse(result.Receipt),
	})
}

func toRequestResponse(request *domain.Request) RequestResponse {
	response := RequestResponse{
		ID:         request.ID,
		CustomerID: request.CustomerID,
		Pickup: LocationPayload{
			Lat:     request.Pickup.Lat,
			Lng:     request.Pickup.Lng,
			Address: request.Pickup.Address,
		},
		Dropoff: LocationPayload{
			Lat:     request.Dropoff.Lat,
			Lng:     request.Dropoff.Lng,
			Address: request.Dropoff.Address,
		},
		VehicleType:     string(request.VehicleType),
		Status:          string(request.Status),
		AcceptedOfferID: request.AcceptedOfferID,
		PaymentID:       request.PaymentID,
		Message:         request.CustomerMessage,
		CreatedAt:       request.CreatedAt.Format(time.RFC3339),
	}
	if !request.BookingTime.IsZero() {
		response.BookingTime = request.BookingTime.Format(time.RFC3339)
	}
	return response
}

// queryFloat parses an optional float query parameter; absent or
// malformed values come back as NaN so the service treats them as
// missing.
func queryFloat(c *gin.Context, name string) float64 {
	raw := c.Query(name)
	if raw == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
