package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sayhighz/slideme-AI-sub000/internal/domain"
	"github.com/Sayhighz/slideme-AI-sub000/internal/repository"
)

// UserHandler handles HTTP requests for customers.
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// RegisterUserBody is the HTTP request body for customer registration.
type RegisterUserBody struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UserResponse is the HTTP representation of a customer.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var body RegisterUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if body.Name == "" || body.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	existing, err := h.userRepo.GetByPhone(c.Request.Context(), body.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already registered",
			"user":    UserResponse{ID: existing.ID, Name: existing.Name, Phone: existing.Phone},
		})
		return
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      body.Name,
		Phone:     body.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, UserResponse{ID: user.ID, Name: user.Name, Phone: user.Phone})
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, UserResponse{ID: user.ID, Name: user.Name, Phone: user.Phone})
	}
	respondJSON(c, http.StatusOK, responses)
}
