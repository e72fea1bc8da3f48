package dto

import (
	"time"

	"tradevine/internal/domain"
)

// CreateAccountRequest represents the account creation payload
type CreateAccountRequest struct {
	Name           string   `json:"name"`
	Broker         string   `json:"broker"`
	BaseCurrency   string   `json:"base_currency"`
	InitialCapital float64  `json:"initial_capital"`
	ProfitTarget   *float64 `json:"profit_target"`
	MaxDrawdown    *float64 `json:"max_drawdown"`
	TradingModel   string   `json:"trading_model"`
}

// UpdateAccountRequest represents a partial account update; nil fields stay
// unchanged
type UpdateAccountRequest struct {
	Name         *string  `json:"name"`
	Broker       *string  `json:"broker"`
	BaseCurrency *string  `json:"base_currency"`
	ProfitTarget *float64 `json:"profit_target"`
	MaxDrawdown  *float64 `json:"max_drawdown"`
	TradingModel *string  `json:"trading_model"`
}

// AccountOutput represents an account in API responses
type AccountOutput struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	Broker         string   `json:"broker"`
	BaseCurrency   string   `json:"base_currency"`
	InitialCapital float64  `json:"initial_capital"`
	CurrentBalance float64  `json:"current_balance"`
	ProfitTarget   *float64 `json:"profit_target,omitempty"`
	MaxDrawdown    *float64 `json:"max_drawdown,omitempty"`
	TradingModel   string   `json:"trading_model"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// NewAccountOutput converts a domain account to its API shape
func NewAccountOutput(account *domain.Account) *AccountOutput {
	return &AccountOutput{
		ID:             account.ID.String(),
		UserID:         account.UserID.String(),
		Name:           account.Name,
		Broker:         account.Broker,
		BaseCurrency:   account.BaseCurrency,
		InitialCapital: Round2(account.InitialCapital),
		CurrentBalance: Round2(account.CurrentBalance),
		ProfitTarget:   account.ProfitTarget,
		MaxDrawdown:    account.MaxDrawdown,
		TradingModel:   account.TradingModel,
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}
