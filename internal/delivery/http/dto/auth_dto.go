package dto

import (
	"time"

	"tradevine/internal/domain"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PrimaryCurrency string `json:"primary_currency"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}

// UserOutput represents user data in API responses
type UserOutput struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	PrimaryCurrency string `json:"primary_currency"`
	CreatedAt       string `json:"created_at"`
}

// NewUserOutput converts a domain user to its API shape
func NewUserOutput(user *domain.User) *UserOutput {
	return &UserOutput{
		ID:              user.ID.String(),
		Email:           user.Email,
		PrimaryCurrency: user.PrimaryCurrency,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
}
