package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevine/internal/domain"
)

func TestCalculatePositionSize(t *testing.T) {
	t.Parallel()

	result, err := CalculatePositionSize(PositionSizeInput{
		AccountBalance: 10000,
		RiskPercentage: 1,
		EntryPrice:     100,
		StopLossPrice:  95,
	})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.RiskAmount, 1e-9)
	assert.InDelta(t, 5.0, result.PriceDifference, 1e-9)
	assert.InDelta(t, 20.0, result.PositionSize, 1e-9)
	assert.Nil(t, result.RMultiple)
}

func TestCalculatePositionSize_WithTakeProfit(t *testing.T) {
	t.Parallel()

	tp := 115.0
	result, err := CalculatePositionSize(PositionSizeInput{
		AccountBalance:  10000,
		RiskPercentage:  1,
		EntryPrice:      100,
		StopLossPrice:   95,
		TakeProfitPrice: &tp,
	})
	require.NoError(t, err)

	require.NotNil(t, result.RMultiple)
	assert.InDelta(t, 3.0, *result.RMultiple, 1e-9)
}

func TestCalculatePositionSize_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   PositionSizeInput
		kind error
	}{
		{
			"zero balance",
			PositionSizeInput{RiskPercentage: 1, EntryPrice: 100, StopLossPrice: 95},
			domain.ErrValidation,
		},
		{
			"negative risk",
			PositionSizeInput{AccountBalance: 10000, RiskPercentage: -1, EntryPrice: 100, StopLossPrice: 95},
			domain.ErrValidation,
		},
		{
			"stop equals entry",
			PositionSizeInput{AccountBalance: 10000, RiskPercentage: 1, EntryPrice: 100, StopLossPrice: 100},
			domain.ErrDegenerateInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CalculatePositionSize(tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCalculateForexLotSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          ForexLotSizeInput
		wantLots    float64
		wantType    string
		wantDisplay string
	}{
		{
			"standard lot",
			ForexLotSizeInput{AccountBalance: 100000, RiskPercentage: 1, StopLossPips: 50, CurrencyPair: "EURUSD"},
			2.0, "Standard", "2.00 Standard Lots",
		},
		{
			"mini lot",
			ForexLotSizeInput{AccountBalance: 10000, RiskPercentage: 1, StopLossPips: 50, CurrencyPair: "GBPUSD"},
			0.2, "Mini", "2.00 Mini Lots",
		},
		{
			"micro lot",
			ForexLotSizeInput{AccountBalance: 1000, RiskPercentage: 1, StopLossPips: 50, CurrencyPair: "USDJPY"},
			0.02, "Micro", "2.00 Micro Lots",
		},
		{
			"unknown pair falls back to default pip value",
			ForexLotSizeInput{AccountBalance: 100000, RiskPercentage: 1, StopLossPips: 50, CurrencyPair: "EURNOK"},
			2.0, "Standard", "2.00 Standard Lots",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := CalculateForexLotSize(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLots, result.LotSize, 1e-9)
			assert.Equal(t, tt.wantType, result.LotType)
			assert.Equal(t, tt.wantDisplay, result.LotDisplay)
		})
	}
}

func TestCalculateForexLotSize_Invalid(t *testing.T) {
	t.Parallel()

	_, err := CalculateForexLotSize(ForexLotSizeInput{
		AccountBalance: 10000, RiskPercentage: 1, StopLossPips: 0, CurrencyPair: "EURUSD",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = CalculateForexLotSize(ForexLotSizeInput{
		AccountBalance: 10000, RiskPercentage: 1, StopLossPips: 20,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCalculateStockShares(t *testing.T) {
	t.Parallel()

	result, err := CalculateStockShares(StockSharesInput{
		AccountBalance: 10000,
		RiskPercentage: 1,
		EntryPrice:     50,
		StopLossPrice:  47,
	})
	require.NoError(t, err)

	// 100 of budgeted risk over a 3 point stop rounds down to 33 shares.
	assert.Equal(t, 33, result.Shares)
	assert.InDelta(t, 100.0, result.RiskAmount, 1e-9)
	assert.InDelta(t, 99.0, result.ActualRisk, 1e-9)
	assert.InDelta(t, 0.99, result.ActualRiskPercentage, 1e-9)
	assert.InDelta(t, 1650.0, result.TotalInvestment, 1e-9)
}

func TestCalculateStockShares_DegenerateStop(t *testing.T) {
	t.Parallel()

	_, err := CalculateStockShares(StockSharesInput{
		AccountBalance: 10000,
		RiskPercentage: 1,
		EntryPrice:     50,
		StopLossPrice:  50,
	})
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)
}
