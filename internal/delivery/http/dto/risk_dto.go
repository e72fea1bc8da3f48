package dto

import (
	"tradevine/internal/service"
)

// CreateRiskTypeRequest is the create risk type request
type CreateRiskTypeRequest struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	DefaultRiskPercentage *float64 `json:"default_risk_percentage"`
}

// CreateStrategyTagRequest is the create strategy tag request
type CreateStrategyTagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PositionSizeRequest is the generic position size calculator request
type PositionSizeRequest struct {
	AccountBalance  *float64 `json:"account_balance"`
	RiskPercentage  *float64 `json:"risk_percentage"`
	EntryPrice      *float64 `json:"entry_price"`
	StopLossPrice   *float64 `json:"stop_loss_price"`
	TakeProfitPrice *float64 `json:"take_profit_price"`
}

// PositionSizeOutput is the generic position size calculator response
type PositionSizeOutput struct {
	RiskAmount      float64  `json:"risk_amount"`
	PositionSize    float64  `json:"position_size"`
	PriceDifference float64  `json:"price_difference"`
	RMultiple       *float64 `json:"r_multiple,omitempty"`
}

// NewPositionSizeOutput converts a calculator result to its API shape
func NewPositionSizeOutput(r service.PositionSizeResult) *PositionSizeOutput {
	out := &PositionSizeOutput{
		RiskAmount:      Round2(r.RiskAmount),
		PositionSize:    r.PositionSize,
		PriceDifference: r.PriceDifference,
	}
	if r.RMultiple != nil {
		rounded := Round2(*r.RMultiple)
		out.RMultiple = &rounded
	}
	return out
}

// ForexLotSizeRequest is the forex lot size calculator request
type ForexLotSizeRequest struct {
	AccountBalance *float64 `json:"account_balance"`
	RiskPercentage *float64 `json:"risk_percentage"`
	StopLossPips   *float64 `json:"stop_loss_pips"`
	CurrencyPair   string   `json:"currency_pair"`
}

// ForexLotSizeOutput is the forex lot size calculator response
type ForexLotSizeOutput struct {
	RiskAmount float64 `json:"risk_amount"`
	LotSize    float64 `json:"lot_size"`
	LotType    string  `json:"lot_type"`
	LotDisplay string  `json:"lot_display"`
	PipValue   float64 `json:"pip_value"`
	RiskPerPip float64 `json:"risk_per_pip"`
}

// NewForexLotSizeOutput converts a forex calculator result to its API shape
func NewForexLotSizeOutput(r service.ForexLotSizeResult) *ForexLotSizeOutput {
	return &ForexLotSizeOutput{
		RiskAmount: Round2(r.RiskAmount),
		LotSize:    r.LotSize,
		LotType:    r.LotType,
		LotDisplay: r.LotDisplay,
		PipValue:   r.PipValue,
		RiskPerPip: Round2(r.RiskPerPip),
	}
}

// StockSharesRequest is the stock share calculator request
type StockSharesRequest struct {
	AccountBalance *float64 `json:"account_balance"`
	RiskPercentage *float64 `json:"risk_percentage"`
	EntryPrice     *float64 `json:"entry_price"`
	StopLossPrice  *float64 `json:"stop_loss_price"`
}

// StockSharesOutput is the stock share calculator response
type StockSharesOutput struct {
	Shares               int     `json:"shares"`
	RiskAmount           float64 `json:"risk_amount"`
	ActualRisk           float64 `json:"actual_risk"`
	ActualRiskPercentage float64 `json:"actual_risk_percentage"`
	TotalInvestment      float64 `json:"total_investment"`
	PriceDifference      float64 `json:"price_difference"`
}

// NewStockSharesOutput converts a stock calculator result to its API shape
func NewStockSharesOutput(r service.StockSharesResult) *StockSharesOutput {
	return &StockSharesOutput{
		Shares:               r.Shares,
		RiskAmount:           Round2(r.RiskAmount),
		ActualRisk:           Round2(r.ActualRisk),
		ActualRiskPercentage: Round2(r.ActualRiskPercentage),
		TotalInvestment:      Round2(r.TotalInvestment),
		PriceDifference:      r.PriceDifference,
	}
}

// RiskAdviceOutput is the risk suggestion response
type RiskAdviceOutput struct {
	Account           *AccountOutput            `json:"account"`
	Suggestions       []service.RiskSuggestion  `json:"suggestions"`
	CurrentDrawdown   float64                   `json:"current_drawdown"`
	RecentPerformance service.RecentPerformance `json:"recent_performance"`
}

// NewRiskAdviceOutput converts the suggestion bundle to its API shape
func NewRiskAdviceOutput(a *service.RiskAdvice) *RiskAdviceOutput {
	perf := a.RecentPerformance
	perf.WinRate = Round2(perf.WinRate)
	perf.TotalPnL = Round2(perf.TotalPnL)
	return &RiskAdviceOutput{
		Account:           NewAccountOutput(a.Account),
		Suggestions:       a.Suggestions,
		CurrentDrawdown:   Round2(a.CurrentDrawdown),
		RecentPerformance: perf,
	}
}
