package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trade represents one journaled trade with its fill ledger. Entries, Exits
// and Costs are owned by the trade and deleted with it. Valuation methods are
// pure functions of the ledger as currently loaded.
type Trade struct {
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	Name            string     `json:"name,omitempty"`
	Instrument      string     `json:"instrument"`
	Direction       string     `json:"direction"` // "Long" or "Short"
	Status          string     `json:"status"`
	StopLossPrice   *float64   `json:"stop_loss_price,omitempty"`
	TakeProfitPrice *float64   `json:"take_profit_price,omitempty"`
	RiskTypeID      *uuid.UUID `json:"risk_type_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Entries      []*Entry       `json:"entries"`
	Exits        []*Exit        `json:"exits"`
	Costs        []*Cost        `json:"costs"`
	StrategyTags []*StrategyTag `json:"strategy_tags,omitempty"`
}

// Direction constants
const (
	DirectionLong  = "Long"
	DirectionShort = "Short"
)

// TradeStatus constants. Open -> Closed is derived from the ledger once the
// exited quantity matches the entered quantity; Pending and Canceled are set
// externally, never derived.
const (
	StatusOpen     = "Open"
	StatusClosed   = "Closed"
	StatusPending  = "Pending"
	StatusCanceled = "Canceled"
)

// Entry is a fill that opens or adds to a position.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	TradeID    uuid.UUID `json:"trade_id"`
	FilledAt   time.Time `json:"filled_at"`
	Price      float64   `json:"price"`
	Quantity   float64   `json:"quantity"`
	Commission float64   `json:"commission"`
	CreatedAt  time.Time `json:"created_at"`
}

// Exit is a fill that reduces or closes a position.
type Exit struct {
	ID         uuid.UUID `json:"id"`
	TradeID    uuid.UUID `json:"trade_id"`
	FilledAt   time.Time `json:"filled_at"`
	Price      float64   `json:"price"`
	Quantity   float64   `json:"quantity"`
	Commission float64   `json:"commission"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cost is an ad-hoc charge booked against a trade.
type Cost struct {
	ID          uuid.UUID `json:"id"`
	TradeID     uuid.UUID `json:"trade_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CostType constants
const (
	CostCommission = "Commission"
	CostSpread     = "Spread"
	CostSwap       = "Swap"
	CostSlippage   = "Slippage"
)

// IsLong checks if the trade is a Long trade
func (t *Trade) IsLong() bool {
	return t.Direction == DirectionLong
}

// WeightedAvgEntry returns the quantity-weighted mean entry price,
// 0 when there are no entries.
func (t *Trade) WeightedAvgEntry() float64 {
	if len(t.Entries) == 0 {
		return 0
	}
	var value, qty float64
	for _, e := range t.Entries {
		value += e.Price * e.Quantity
		qty += e.Quantity
	}
	if qty <= 0 {
		return 0
	}
	return value / qty
}

// WeightedAvgExit returns the quantity-weighted mean exit price,
// 0 when there are no exits.
func (t *Trade) WeightedAvgExit() float64 {
	if len(t.Exits) == 0 {
		return 0
	}
	var value, qty float64
	for _, e := range t.Exits {
		value += e.Price * e.Quantity
		qty += e.Quantity
	}
	if qty <= 0 {
		return 0
	}
	return value / qty
}

// TotalQuantityEntered sums the quantity of all entries.
func (t *Trade) TotalQuantityEntered() float64 {
	var qty float64
	for _, e := range t.Entries {
		qty += e.Quantity
	}
	return qty
}

// TotalQuantityExited sums the quantity of all exits.
func (t *Trade) TotalQuantityExited() float64 {
	var qty float64
	for _, e := range t.Exits {
		qty += e.Quantity
	}
	return qty
}

// OpenQuantity returns the still-open quantity. Callers must validate an
// exit against this before admitting it; under correct use it never goes
// negative.
func (t *Trade) OpenQuantity() float64 {
	return t.TotalQuantityEntered() - t.TotalQuantityExited()
}

// TotalCosts sums all booked cost amounts.
func (t *Trade) TotalCosts() float64 {
	var total float64
	for _, c := range t.Costs {
		total += c.Amount
	}
	return total
}

// GrossPnL returns the trade-to-date P&L before costs, recomputed from the
// full ledger (all exits so far), 0 if nothing has been exited.
func (t *Trade) GrossPnL() float64 {
	if len(t.Exits) == 0 {
		return 0
	}
	avgEntry := t.WeightedAvgEntry()
	avgExit := t.WeightedAvgExit()
	exited := t.TotalQuantityExited()

	if t.IsLong() {
		return (avgExit - avgEntry) * exited
	}
	return (avgEntry - avgExit) * exited
}

// NetPnL returns gross P&L minus total costs.
func (t *Trade) NetPnL() float64 {
	return t.GrossPnL() - t.TotalCosts()
}

// RiskAmount returns the amount put at risk via the stop-loss distance,
// assessed against the full entered quantity regardless of partial exits.
// 0 when no stop-loss is set or nothing has been entered.
func (t *Trade) RiskAmount() float64 {
	if t.StopLossPrice == nil || len(t.Entries) == 0 {
		return 0
	}
	avgEntry := t.WeightedAvgEntry()
	entered := t.TotalQuantityEntered()

	if t.IsLong() {
		return (avgEntry - *t.StopLossPrice) * entered
	}
	return (*t.StopLossPrice - avgEntry) * entered
}

// RMultiple returns net P&L as a multiple of the risk amount. A zero or
// negative risk amount is a degenerate configuration and yields 0.
func (t *Trade) RMultiple() float64 {
	risk := t.RiskAmount()
	if risk <= 0 {
		return 0
	}
	return t.NetPnL() / risk
}
