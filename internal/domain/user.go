package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated journal owner
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never expose password hash in JSON
	PrimaryCurrency string    `json:"primary_currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
