package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulatsharif/trading-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	Name     string `json:"name"     validate:"required,min=1,max=128"`
	Password string `json:"password" validate:"required,min=1,max=72"`
	RoleID   *int64 `json:"role_id,omitempty"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// UserResponse defines the user representation returned by the API.
// The credential is never echoed.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsVerified   bool      `json:"is_verified"`
	RoleID       *int64    `json:"role_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewUserResponse converts a domain user into its API representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Name:         user.Name,
		IsActive:     user.IsActive,
		IsSuperuser:  user.IsSuperuser,
		IsVerified:   user.IsVerified,
		RoleID:       user.RoleID,
		RegisteredAt: user.RegisteredAt,
	}
}

// TradeRequest defines a single trade in the trade ingestion payload.
type TradeRequest struct {
	UserID   uuid.UUID `json:"user_id"  validate:"required"`
	Currency string    `json:"currency" validate:"required,max=5"`
	Side     string    `json:"side"     validate:"required,oneof=buy sell"`
	Price    float64   `json:"price"    validate:"gte=0"`
	Amount   float64   `json:"amount"   validate:"required,gt=0"`
}

// ToDomain converts a trade request into a domain trade.
func (t TradeRequest) ToDomain() domain.Trade {
	return domain.Trade{
		UserID:   t.UserID,
		Currency: t.Currency,
		Side:     t.Side,
		Price:    t.Price,
		Amount:   t.Amount,
	}
}
