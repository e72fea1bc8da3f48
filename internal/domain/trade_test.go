package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func longTrade() *Trade {
	return &Trade{Direction: DirectionLong, Status: StatusOpen}
}

func TestWeightedAvgEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []*Entry
		want    float64
	}{
		{"no entries", nil, 0},
		{"single fill", []*Entry{{Price: 100, Quantity: 10}}, 100},
		{
			"weighted across fills",
			[]*Entry{{Price: 100, Quantity: 10}, {Price: 110, Quantity: 30}},
			107.5,
		},
		{"zero quantities", []*Entry{{Price: 100, Quantity: 0}}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			trade := longTrade()
			trade.Entries = tt.entries
			assert.InDelta(t, tt.want, trade.WeightedAvgEntry(), 1e-9)
		})
	}
}

func TestOpenQuantity(t *testing.T) {
	t.Parallel()

	trade := longTrade()
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}, {Price: 101, Quantity: 5}}
	trade.Exits = []*Exit{{Price: 105, Quantity: 6}}

	assert.InDelta(t, 15.0, trade.TotalQuantityEntered(), 1e-9)
	assert.InDelta(t, 6.0, trade.TotalQuantityExited(), 1e-9)
	assert.InDelta(t, 9.0, trade.OpenQuantity(), 1e-9)
}

func TestGrossPnL_Long(t *testing.T) {
	t.Parallel()

	trade := longTrade()
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}
	trade.Exits = []*Exit{{Price: 110, Quantity: 10}}

	assert.InDelta(t, 100.0, trade.GrossPnL(), 1e-9)
}

func TestGrossPnL_Short(t *testing.T) {
	t.Parallel()

	trade := &Trade{Direction: DirectionShort}
	trade.Entries = []*Entry{{Price: 100, Quantity: 5}}
	trade.Exits = []*Exit{{Price: 90, Quantity: 5}}

	assert.InDelta(t, 50.0, trade.GrossPnL(), 1e-9)
}

func TestGrossPnL_NoExits(t *testing.T) {
	t.Parallel()

	trade := longTrade()
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}

	assert.Zero(t, trade.GrossPnL())
}

func TestGrossPnL_PartialExit(t *testing.T) {
	t.Parallel()

	// Only the exited quantity participates in P&L.
	trade := longTrade()
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}
	trade.Exits = []*Exit{{Price: 105, Quantity: 4}}

	assert.InDelta(t, 20.0, trade.GrossPnL(), 1e-9)
}

func TestNetPnL_SubtractsCosts(t *testing.T) {
	t.Parallel()

	trade := longTrade()
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}
	trade.Exits = []*Exit{{Price: 110, Quantity: 10}}
	trade.Costs = []*Cost{
		{Type: CostCommission, Amount: 5},
		{Type: CostSwap, Amount: 2.5},
	}

	assert.InDelta(t, 7.5, trade.TotalCosts(), 1e-9)
	assert.InDelta(t, 92.5, trade.NetPnL(), 1e-9)
}

func TestRiskAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		direction string
		stop      *float64
		entries   []*Entry
		exits     []*Exit
		want      float64
	}{
		{"no stop loss", DirectionLong, nil, []*Entry{{Price: 100, Quantity: 10}}, nil, 0},
		{"no entries", DirectionLong, ptr(95), nil, nil, 0},
		{
			"long stop below entry", DirectionLong, ptr(95),
			[]*Entry{{Price: 100, Quantity: 10}}, nil, 50,
		},
		{
			"short stop above entry", DirectionShort, ptr(105),
			[]*Entry{{Price: 100, Quantity: 10}}, nil, 50,
		},
		{
			// Risk stays assessed against the full entered quantity.
			"partial exit does not shrink risk", DirectionLong, ptr(95),
			[]*Entry{{Price: 100, Quantity: 10}},
			[]*Exit{{Price: 110, Quantity: 6}}, 50,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			trade := &Trade{
				Direction:     tt.direction,
				StopLossPrice: tt.stop,
				Entries:       tt.entries,
				Exits:         tt.exits,
			}
			assert.InDelta(t, tt.want, trade.RiskAmount(), 1e-9)
		})
	}
}

func TestRMultiple(t *testing.T) {
	t.Parallel()

	trade := longTrade()
	trade.StopLossPrice = ptr(95)
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}
	trade.Exits = []*Exit{{Price: 110, Quantity: 10}}

	// 100 gained over 50 risked.
	assert.InDelta(t, 2.0, trade.RMultiple(), 1e-9)
}

func TestRMultiple_DegenerateRisk(t *testing.T) {
	t.Parallel()

	// Stop above entry on a long: risk comes out non-positive, R is 0.
	trade := longTrade()
	trade.StopLossPrice = ptr(105)
	trade.Entries = []*Entry{{Price: 100, Quantity: 10}}
	trade.Exits = []*Exit{{Price: 110, Quantity: 10}}

	assert.Zero(t, trade.RMultiple())
}
