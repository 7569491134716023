package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
	"github.com/Sayhighz/slideme-AI-sub000/internal/service"
)

// DriverHandler handles HTTP requests for driver profiles.
type DriverHandler struct {
	driverRepo repository.DriverRepository
	drivers    *service.DriverDirectory
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverRepo repository.DriverRepository, drivers *service.DriverDirectory) *DriverHandler {
	return &DriverHandler{
		driverRepo: driverRepo,
		drivers:    drivers,
	}
}

// RegisterDriverBody is the HTTP request body for driver registration.
type RegisterDriverBody struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicle_type"`
}

// DriverResponse is the HTTP representation of a driver profile.
type DriverResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	ApprovalStatus string `json:"approval_status"`
	VehicleType    string `json:"vehicle_type"`
}

// Register handles POST /v1/drivers/register
func (h *DriverHandler) Register(c *gin.Context) {
	var body RegisterDriverBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if body.Name == "" || body.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}
	if !domain.ValidVehicleType(body.VehicleType) {
		respondError(c, service.ErrInvalidVehicleType)
		return
	}

	existing, err := h.driverRepo.GetByPhone(c.Request.Context(), body.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Driver already registered",
			"driver":  toDriverResponse(existing),
		})
		return
	}

	// New drivers start unapproved; the approval workflow is handled by
	// a separate back-office service.
	driver := &domain.Driver{
		ID:             uuid.New().String(),
		Name:           body.Name,
		Phone:          body.Phone,
		ApprovalStatus: domain.ApprovalStatusPending,
		VehicleType:    domain.VehicleType(body.VehicleType),
		CreatedAt:      time.Now(),
	}

	if err := h.driverRepo.Create(c.Request.Context(), driver); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// UpdateApprovalBody is the HTTP request body for an approval change.
type UpdateApprovalBody struct {
	ApprovalStatus string `json:"approval_status"`
}

// UpdateApproval handles POST /v1/drivers/:id/approval. It is the
// inbound edge of the external approval workflow.
func (h *DriverHandler) UpdateApproval(c *gin.Context) {
	var body UpdateApprovalBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.ApprovalStatus(body.ApprovalStatus)
	switch status {
	case domain.ApprovalStatusPending, domain.ApprovalStatusApproved, domain.ApprovalStatusSuspended:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid approval_status"})
		return
	}

	driverID := c.Param("id")
	if err := h.driverRepo.UpdateApproval(c.Request.Context(), driverID, status); err != nil {
		respondError(c, err)
		return
	}

	// Drop the cached profile so offer preconditions see the change.
	h.drivers.Invalidate(c.Request.Context(), driverID)

	respondJSON(c, http.StatusOK, gin.H{"id": driverID, "approval_status": string(status)})
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers, err := h.driverRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		responses = append(responses, toDriverResponse(driver))
	}
	respondJSON(c, http.StatusOK, responses)
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:             driver.ID,
		Name:           driver.Name,
		Phone:          driver.Phone,
		ApprovalStatus: string(driver.ApprovalStatus),
		VehicleType:    string(driver.VehicleType),
	}
}
