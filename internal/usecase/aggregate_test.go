package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevine/internal/domain"
)

// closedTrade builds a closed long trade with a single entry at 100 and one
// exit priced to land on the given net P&L.
func closedTrade(netPnL float64) *domain.Trade {
	return closedTradeAt(netPnL, time.Time{})
}

func closedTradeAt(netPnL float64, createdAt time.Time) *domain.Trade {
	return &domain.Trade{
		ID:         uuid.New(),
		Instrument: "EURUSD",
		Direction:  domain.DirectionLong,
		Status:     domain.StatusClosed,
		CreatedAt:  createdAt,
		Entries:    []*domain.Entry{{Price: 100, Quantity: 1}},
		Exits:      []*domain.Exit{{Price: 100 + netPnL, Quantity: 1}},
	}
}

func openTrade() *domain.Trade {
	return &domain.Trade{
		ID:         uuid.New(),
		Instrument: "EURUSD",
		Direction:  domain.DirectionLong,
		Status:     domain.StatusOpen,
		Entries:    []*domain.Entry{{Price: 100, Quantity: 1}},
	}
}

func TestAggregateTrades_Empty(t *testing.T) {
	t.Parallel()

	m := AggregateTrades(nil)

	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.AvgWin)
	assert.Zero(t, m.AvgLoss)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.AvgRMultiple)
}

func TestAggregateTrades_Basics(t *testing.T) {
	t.Parallel()

	trades := []*domain.Trade{
		closedTrade(100),
		closedTrade(50),
		closedTrade(-30),
		closedTrade(0), // break-even counts as a loss
		openTrade(),
	}

	m := AggregateTrades(trades)

	assert.Equal(t, 5, m.TotalTrades)
	assert.Equal(t, 4, m.ClosedTrades)
	assert.Equal(t, 1, m.OpenTrades)
	assert.InDelta(t, 120.0, m.TotalPnL, 1e-9)
	assert.InDelta(t, 50.0, m.WinRate, 1e-9)
	assert.InDelta(t, 75.0, m.AvgWin, 1e-9)
	assert.InDelta(t, -15.0, m.AvgLoss, 1e-9)
	assert.InDelta(t, 5.0, m.ProfitFactor, 1e-9)
}

func TestAggregateTrades_ProfitFactorNoLosses(t *testing.T) {
	t.Parallel()

	m := AggregateTrades([]*domain.Trade{closedTrade(10), closedTrade(20)})

	assert.InDelta(t, 100.0, m.WinRate, 1e-9)
	assert.Zero(t, m.ProfitFactor)
}

func TestAggregateTrades_AvgRMultipleSkipsZero(t *testing.T) {
	t.Parallel()

	withStop := closedTrade(10)
	stop := 95.0
	withStop.StopLossPrice = &stop // risk 5, R = 2

	noStop := closedTrade(40) // R is 0 without a stop, excluded from the mean

	m := AggregateTrades([]*domain.Trade{withStop, noStop})

	assert.InDelta(t, 2.0, m.AvgRMultiple, 1e-9)
}

func TestExpectancy(t *testing.T) {
	t.Parallel()

	// 60% winners at +100 against 40% losers at 50 magnitude.
	got := Expectancy(60, 100, 50)
	assert.InDelta(t, 40.0, got, 1e-9)

	assert.Zero(t, Expectancy(0, 0, 0))
}

func TestStreaks(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		closedTradeAt(10, base),
		closedTradeAt(20, base.Add(1*time.Hour)),
		closedTradeAt(-5, base.Add(2*time.Hour)),
		closedTradeAt(0, base.Add(3*time.Hour)), // break-even extends the loss run
		closedTradeAt(-5, base.Add(4*time.Hour)),
		closedTradeAt(15, base.Add(5*time.Hour)),
	}

	s := Streaks(trades)

	assert.Equal(t, 2, s.MaxConsecutiveWins)
	assert.Equal(t, 3, s.MaxConsecutiveLosses)
}

func TestStreaks_OrderIndependentOfInput(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Same trades, shuffled input order; streaks follow creation time.
	trades := []*domain.Trade{
		closedTradeAt(15, base.Add(5*time.Hour)),
		closedTradeAt(-5, base.Add(2*time.Hour)),
		closedTradeAt(10, base),
		closedTradeAt(-5, base.Add(4*time.Hour)),
		closedTradeAt(20, base.Add(1*time.Hour)),
		closedTradeAt(0, base.Add(3*time.Hour)),
	}

	s := Streaks(trades)

	assert.Equal(t, 2, s.MaxConsecutiveWins)
	assert.Equal(t, 3, s.MaxConsecutiveLosses)
}

func TestBestAndWorst(t *testing.T) {
	t.Parallel()

	best, worst := BestAndWorst(nil)
	assert.Nil(t, best)
	assert.Nil(t, worst)

	a := closedTrade(10)
	b := closedTrade(-20)
	c := closedTrade(50)

	best, worst = BestAndWorst([]*domain.Trade{a, b, c})
	require.NotNil(t, best)
	require.NotNil(t, worst)
	assert.Equal(t, c.ID, best.ID)
	assert.Equal(t, b.ID, worst.ID)
}

func TestGroupByInstrument(t *testing.T) {
	t.Parallel()

	eur1 := closedTrade(10)
	eur2 := closedTrade(-5)
	gold := closedTrade(30)
	gold.Instrument = "XAUUSD"

	groups := GroupByInstrument([]*domain.Trade{eur1, gold, eur2})

	require.Len(t, groups, 2)
	assert.Equal(t, "EURUSD", groups[0].Label)
	assert.Equal(t, 2, groups[0].Trades)
	assert.InDelta(t, 5.0, groups[0].PnL, 1e-9)
	assert.InDelta(t, 50.0, groups[0].WinRate, 1e-9)
	assert.Equal(t, "XAUUSD", groups[1].Label)
	assert.InDelta(t, 100.0, groups[1].WinRate, 1e-9)
}

func TestGroupByRiskType_Unassigned(t *testing.T) {
	t.Parallel()

	scalp := uuid.New()
	tagged := closedTrade(10)
	tagged.RiskTypeID = &scalp
	untagged := closedTrade(-5)

	groups := GroupByRiskType(
		[]*domain.Trade{tagged, untagged},
		map[uuid.UUID]string{scalp: "Scalp"},
	)

	require.Len(t, groups, 2)
	assert.Equal(t, "Scalp", groups[0].Label)
	assert.Equal(t, domain.UnassignedRiskType, groups[1].Label)
}

func perf(name string, pct float64) AccountPerformance {
	return AccountPerformance{
		Account:       &domain.Account{Name: name},
		PnLPercentage: pct,
	}
}

func TestRankAccounts_FewAccounts(t *testing.T) {
	t.Parallel()

	ranked, top, bottom := RankAccounts([]AccountPerformance{
		perf("a", 5), perf("b", 10),
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Account.Name)
	assert.Len(t, top, 2)
	assert.Empty(t, bottom)
}

func TestRankAccounts_TopAndBottom(t *testing.T) {
	t.Parallel()

	ranked, top, bottom := RankAccounts([]AccountPerformance{
		perf("a", 1), perf("b", 9), perf("c", 4), perf("d", -3), perf("e", 7),
	})

	require.Len(t, ranked, 5)
	require.Len(t, top, 3)
	require.Len(t, bottom, 3)
	assert.Equal(t, "b", top[0].Account.Name)
	assert.Equal(t, "e", top[1].Account.Name)
	assert.Equal(t, "c", top[2].Account.Name)
	assert.Equal(t, "d", bottom[2].Account.Name)
}

func TestRankAccounts_StableOnTies(t *testing.T) {
	t.Parallel()

	ranked, _, _ := RankAccounts([]AccountPerformance{
		perf("first", 5), perf("second", 5), perf("third", 5),
	})

	assert.Equal(t, "first", ranked[0].Account.Name)
	assert.Equal(t, "second", ranked[1].Account.Name)
	assert.Equal(t, "third", ranked[2].Account.Name)
}
