package service

import (
	"fmt"
	"math"

	"tradevine/internal/domain"
)

// Position-sizing calculators. Stateless, input-validated pure functions;
// none of them touch the record store.

// PositionSizeInput is the generic position size request.
type PositionSizeInput struct {
	AccountBalance  float64
	RiskPercentage  float64
	EntryPrice      float64
	StopLossPrice   float64
	TakeProfitPrice *float64
}

// PositionSizeResult is the generic position size response.
type PositionSizeResult struct {
	RiskAmount      float64
	PositionSize    float64
	PriceDifference float64
	RMultiple       *float64
}

// CalculatePositionSize sizes a position so a stop-out loses exactly the
// requested percentage of balance.
func CalculatePositionSize(in PositionSizeInput) (PositionSizeResult, error) {
	if in.AccountBalance <= 0 || in.RiskPercentage <= 0 || in.EntryPrice <= 0 {
		return PositionSizeResult{}, fmt.Errorf(
			"account balance, risk percentage and entry price must be positive: %w",
			domain.ErrValidation)
	}

	priceDiff := math.Abs(in.EntryPrice - in.StopLossPrice)
	if priceDiff == 0 {
		return PositionSizeResult{}, fmt.Errorf(
			"entry price and stop loss price cannot be the same: %w",
			domain.ErrDegenerateInput)
	}

	riskAmount := in.AccountBalance * in.RiskPercentage / 100

	result := PositionSizeResult{
		RiskAmount:      riskAmount,
		PositionSize:    riskAmount / priceDiff,
		PriceDifference: priceDiff,
	}

	if in.TakeProfitPrice != nil {
		r := math.Abs(*in.TakeProfitPrice-in.EntryPrice) / priceDiff
		result.RMultiple = &r
	}

	return result, nil
}

// ForexLotSizeInput is the forex lot size request.
type ForexLotSizeInput struct {
	AccountBalance float64
	RiskPercentage float64
	StopLossPips   float64
	CurrencyPair   string
}

// ForexLotSizeResult is the forex lot size response.
type ForexLotSizeResult struct {
	RiskAmount float64
	LotSize    float64
	LotType    string
	LotDisplay string
	PipValue   float64
	RiskPerPip float64
}

// Per-pip dollar value of one standard lot for the major pairs. Unknown
// pairs fall back to 10; real-time quote conversion is out of scope.
var pipValues = map[string]float64{
	"EURUSD": 10,
	"GBPUSD": 10,
	"AUDUSD": 10,
	"NZDUSD": 10,
	"USDCAD": 10,
	"USDCHF": 10,
	"USDJPY": 10,
}

const defaultPipValue = 10

// CalculateForexLotSize sizes a forex position in lots and labels the result
// as Standard, Mini or Micro.
func CalculateForexLotSize(in ForexLotSizeInput) (ForexLotSizeResult, error) {
	if in.AccountBalance <= 0 || in.RiskPercentage <= 0 {
		return ForexLotSizeResult{}, fmt.Errorf(
			"account balance and risk percentage must be positive: %w",
			domain.ErrValidation)
	}
	if in.StopLossPips <= 0 {
		return ForexLotSizeResult{}, fmt.Errorf(
			"stop loss pips must be positive: %w", domain.ErrValidation)
	}
	if in.CurrencyPair == "" {
		return ForexLotSizeResult{}, fmt.Errorf(
			"currency pair is required: %w", domain.ErrValidation)
	}

	riskAmount := in.AccountBalance * in.RiskPercentage / 100

	pipValue, ok := pipValues[in.CurrencyPair]
	if !ok {
		pipValue = defaultPipValue
	}

	riskPerPip := riskAmount / in.StopLossPips
	lotSize := riskPerPip / pipValue

	var lotType, lotDisplay string
	switch {
	case lotSize >= 1:
		lotType = "Standard"
		lotDisplay = fmt.Sprintf("%.2f Standard Lots", lotSize)
	case lotSize >= 0.1:
		lotType = "Mini"
		lotDisplay = fmt.Sprintf("%.2f Mini Lots", lotSize*10)
	default:
		lotType = "Micro"
		lotDisplay = fmt.Sprintf("%.2f Micro Lots", lotSize*100)
	}

	return ForexLotSizeResult{
		RiskAmount: riskAmount,
		LotSize:    lotSize,
		LotType:    lotType,
		LotDisplay: lotDisplay,
		PipValue:   pipValue,
		RiskPerPip: riskPerPip,
	}, nil
}

// StockSharesInput is the stock share count request.
type StockSharesInput struct {
	AccountBalance float64
	RiskPercentage float64
	EntryPrice     float64
	StopLossPrice  float64
}

// StockSharesResult is the stock share count response.
type StockSharesResult struct {
	Shares               int
	RiskAmount           float64
	ActualRisk           float64
	ActualRiskPercentage float64
	TotalInvestment      float64
	PriceDifference      float64
}

// CalculateStockShares sizes a stock position in whole shares, rounding down,
// and reports the risk actually taken with the rounded count.
func CalculateStockShares(in StockSharesInput) (StockSharesResult, error) {
	if in.AccountBalance <= 0 || in.RiskPercentage <= 0 || in.EntryPrice <= 0 {
		return StockSharesResult{}, fmt.Errorf(
			"account balance, risk percentage and entry price must be positive: %w",
			domain.ErrValidation)
	}

	priceDiff := math.Abs(in.EntryPrice - in.StopLossPrice)
	if priceDiff == 0 {
		return StockSharesResult{}, fmt.Errorf(
			"entry price and stop loss price cannot be the same: %w",
			domain.ErrDegenerateInput)
	}

	riskAmount := in.AccountBalance * in.RiskPercentage / 100
	shares := int(math.Floor(riskAmount / priceDiff))
	actualRisk := float64(shares) * priceDiff

	return StockSharesResult{
		Shares:               shares,
		RiskAmount:           riskAmount,
		ActualRisk:           actualRisk,
		ActualRiskPercentage: actualRisk / in.AccountBalance * 100,
		TotalInvestment:      float64(shares) * in.EntryPrice,
		PriceDifference:      priceDiff,
	}, nil
}
