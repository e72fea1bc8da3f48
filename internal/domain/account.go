package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a brokerage account owned by a user.
// CurrentBalance is a cache: it is recomputed as InitialCapital plus the
// summed net P&L of closed trades whenever the trade ledger changes, and
// must never be treated as a source of truth.
type Account struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Broker         string    `json:"broker"`
	BaseCurrency   string    `json:"base_currency"`
	InitialCapital float64   `json:"initial_capital"`
	CurrentBalance float64   `json:"current_balance"`
	ProfitTarget   *float64  `json:"profit_target,omitempty"` // percent
	MaxDrawdown    *float64  `json:"max_drawdown,omitempty"`  // percent, configured limit
	TradingModel   string    `json:"trading_model"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TradingModel constants
const (
	ModelLowRisk    = "Low Risk"
	ModelMediumRisk = "Medium Risk"
	ModelHighRisk   = "High Risk"
	ModelRiskFree   = "Risk-Free"
)

// PnL returns the account profit or loss against initial capital.
func (a *Account) PnL() float64 {
	return a.CurrentBalance - a.InitialCapital
}

// PnLPercentage returns the account P&L as a percentage of initial capital.
func (a *Account) PnLPercentage() float64 {
	if a.InitialCapital == 0 {
		return 0
	}
	return (a.CurrentBalance - a.InitialCapital) / a.InitialCapital * 100
}

// CurrentDrawdown returns the percentage decline from peak balance.
// Peak is approximated as max(current balance, initial capital); this is a
// single-point drawdown, not a running peak over the full balance history.
func (a *Account) CurrentDrawdown() float64 {
	peak := a.CurrentBalance
	if a.InitialCapital > peak {
		peak = a.InitialCapital
	}
	if peak == 0 {
		return 0
	}
	return (peak - a.CurrentBalance) / peak * 100
}
