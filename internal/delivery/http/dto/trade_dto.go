package dto

import (
	"time"

	"tradevine/internal/domain"
)

// CreateTradeRequest represents the trade creation payload. An initial fill
// may be supplied inline via the entry_* fields.
type CreateTradeRequest struct {
	Name            string        `json:"name"`
	Instrument      string        `json:"instrument"`
	Direction       string        `json:"direction"`
	Status          string        `json:"status"`
	StopLossPrice   *float64      `json:"stop_loss_price"`
	TakeProfitPrice *float64      `json:"take_profit_price"`
	RiskTypeID      *string       `json:"risk_type_id"`
	Notes           string        `json:"notes"`
	EntryDate       string        `json:"entry_date"`
	EntryPrice      *float64      `json:"entry_price"`
	Quantity        *float64      `json:"quantity"`
	Commission      float64       `json:"commission"`
	StrategyTags    []string      `json:"strategy_tags"`
	Costs           []CostRequest `json:"costs"`
}

// UpdateTradeRequest represents a partial trade update; nil fields stay
// unchanged
type UpdateTradeRequest struct {
	Name            *string  `json:"name"`
	Instrument      *string  `json:"instrument"`
	Direction       *string  `json:"direction"`
	Status          *string  `json:"status"`
	StopLossPrice   *float64 `json:"stop_loss_price"`
	TakeProfitPrice *float64 `json:"take_profit_price"`
	RiskTypeID      *string  `json:"risk_type_id"`
	Notes           *string  `json:"notes"`
}

// EntryRequest represents an additional entry fill
type EntryRequest struct {
	EntryDate  string   `json:"entry_date"`
	EntryPrice *float64 `json:"entry_price"`
	Quantity   *float64 `json:"quantity"`
	Commission float64  `json:"commission"`
}

// ExitRequest represents an exit fill
type ExitRequest struct {
	ExitDate   string   `json:"exit_date"`
	ExitPrice  *float64 `json:"exit_price"`
	Quantity   *float64 `json:"quantity"`
	Commission float64  `json:"commission"`
	ExitReason string   `json:"exit_reason"`
}

// CostRequest represents an ad-hoc cost
type CostRequest struct {
	CostType    string   `json:"cost_type"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
}

// TradeMetrics is the per-trade metric bundle derived from the ledger.
// Monetary figures are rounded to two decimals; quantities and prices keep
// ledger precision.
type TradeMetrics struct {
	AvgEntryPrice float64 `json:"avg_entry_price"`
	AvgExitPrice  float64 `json:"avg_exit_price"`
	OpenQuantity  float64 `json:"open_quantity"`
	GrossPnL      float64 `json:"gross_pnl"`
	NetPnL        float64 `json:"net_pnl"`
	TotalCosts    float64 `json:"total_costs"`
	RMultiple     float64 `json:"r_multiple"`
}

// EntryOutput represents an entry fill in API responses
type EntryOutput struct {
	ID         string  `json:"id"`
	FilledAt   string  `json:"filled_at"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Commission float64 `json:"commission"`
}

// ExitOutput represents an exit fill in API responses
type ExitOutput struct {
	ID         string  `json:"id"`
	FilledAt   string  `json:"filled_at"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Commission float64 `json:"commission"`
	Reason     string  `json:"reason,omitempty"`
}

// CostOutput represents a cost in API responses
type CostOutput struct {
	ID          string  `json:"id"`
	CostType    string  `json:"cost_type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// TradeOutput represents a trade with its ledger and derived metrics
type TradeOutput struct {
	ID              string        `json:"id"`
	AccountID       string        `json:"account_id"`
	Name            string        `json:"name,omitempty"`
	Instrument      string        `json:"instrument"`
	Direction       string        `json:"direction"`
	Status          string        `json:"status"`
	StopLossPrice   *float64      `json:"stop_loss_price,omitempty"`
	TakeProfitPrice *float64      `json:"take_profit_price,omitempty"`
	RiskTypeID      *string       `json:"risk_type_id,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
	Entries         []EntryOutput `json:"entries"`
	Exits           []ExitOutput  `json:"exits"`
	Costs           []CostOutput  `json:"costs"`
	StrategyTags    []string      `json:"strategy_tags"`
	Metrics         TradeMetrics  `json:"metrics"`
}

// NewTradeOutput converts a domain trade to its API shape
func NewTradeOutput(trade *domain.Trade) *TradeOutput {
	out := &TradeOutput{
		ID:              trade.ID.String(),
		AccountID:       trade.AccountID.String(),
		Name:            trade.Name,
		Instrument:      trade.Instrument,
		Direction:       trade.Direction,
		Status:          trade.Status,
		StopLossPrice:   trade.StopLossPrice,
		TakeProfitPrice: trade.TakeProfitPrice,
		Notes:           trade.Notes,
		CreatedAt:       trade.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       trade.UpdatedAt.Format(time.RFC3339),
		Entries:         make([]EntryOutput, 0, len(trade.Entries)),
		Exits:           make([]ExitOutput, 0, len(trade.Exits)),
		Costs:           make([]CostOutput, 0, len(trade.Costs)),
		StrategyTags:    make([]string, 0, len(trade.StrategyTags)),
		Metrics: TradeMetrics{
			AvgEntryPrice: trade.WeightedAvgEntry(),
			AvgExitPrice:  trade.WeightedAvgExit(),
			OpenQuantity:  trade.OpenQuantity(),
			GrossPnL:      Round2(trade.GrossPnL()),
			NetPnL:        Round2(trade.NetPnL()),
			TotalCosts:    Round2(trade.TotalCosts()),
			RMultiple:     Round2(trade.RMultiple()),
		},
	}

	if trade.RiskTypeID != nil {
		id := trade.RiskTypeID.String()
		out.RiskTypeID = &id
	}

	for _, e := range trade.Entries {
		out.Entries = append(out.Entries, EntryOutput{
			ID:         e.ID.String(),
			FilledAt:   e.FilledAt.Format(time.RFC3339),
			Price:      e.Price,
			Quantity:   e.Quantity,
			Commission: e.Commission,
		})
	}
	for _, e := range trade.Exits {
		out.Exits = append(out.Exits, ExitOutput{
			ID:         e.ID.String(),
			FilledAt:   e.FilledAt.Format(time.RFC3339),
			Price:      e.Price,
			Quantity:   e.Quantity,
			Commission: e.Commission,
			Reason:     e.Reason,
		})
	}
	for _, c := range trade.Costs {
		out.Costs = append(out.Costs, CostOutput{
			ID:          c.ID.String(),
			CostType:    c.Type,
			Amount:      c.Amount,
			Description: c.Description,
		})
	}
	for _, tag := range trade.StrategyTags {
		out.StrategyTags = append(out.StrategyTags, tag.Name)
	}

	return out
}

// NewTradeOutputs converts a trade slice
func NewTradeOutputs(trades []*domain.Trade) []*TradeOutput {
	outputs := make([]*TradeOutput, 0, len(trades))
	for _, t := range trades {
		outputs = append(outputs, NewTradeOutput(t))
	}
	return outputs
}
