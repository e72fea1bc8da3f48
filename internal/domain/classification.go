package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskType is a user-scoped risk classification label for trades.
type RiskType struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description,omitempty"`
	DefaultRiskPercentage *float64  `json:"default_risk_percentage,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// StrategyTag is a user-scoped strategy label, many-to-many with trades.
type StrategyTag struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnassignedRiskType is the grouping label used in analytics for trades
// without a linked risk type.
const UnassignedRiskType = "Unassigned"
