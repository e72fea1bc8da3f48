package usecase

import (
	"sort"

	"github.com/google/uuid"

	"tradevine/internal/domain"
)

// AccountMetrics is the per-account rollup computed from one account's trades.
// All fields are pure functions of the trade set; rounding happens at the
// presentation boundary, never here.
type AccountMetrics struct {
	TotalTrades   int
	ClosedTrades  int
	OpenTrades    int
	TotalPnL      float64 // net, closed trades only
	TotalGrossPnL float64 // closed trades only
	TotalCosts    float64 // all trades, open included
	WinRate       float64 // percent of closed trades with positive net P&L
	AvgWin        float64
	AvgLoss       float64 // mean net P&L over losers; break-even counts as a loss
	AvgRMultiple  float64 // mean over closed trades with a nonzero R-multiple
	ProfitFactor  float64
}

// PerformanceStreaks are the longest consecutive win and loss runs over
// closed trades scanned in creation order.
type PerformanceStreaks struct {
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
}

// GroupPerformance is a per-label rollup (instrument or risk type).
type GroupPerformance struct {
	Label   string
	Trades  int
	PnL     float64
	WinRate float64
}

// AccountPerformance is one account's contribution to the portfolio view.
type AccountPerformance struct {
	Account       *domain.Account
	PnL           float64
	PnLPercentage float64
	OpenTrades    int
	ClosedTrades  int
}

// SplitByStatus partitions trades into closed and open sets; Pending and
// Canceled trades fall into neither.
func SplitByStatus(trades []*domain.Trade) (closed, open []*domain.Trade) {
	for _, t := range trades {
		switch t.Status {
		case domain.StatusClosed:
			closed = append(closed, t)
		case domain.StatusOpen:
			open = append(open, t)
		}
	}
	return closed, open
}

// AggregateTrades rolls one account's trades up into AccountMetrics.
// Empty-set cases are defined to yield 0, never an error, so dashboards stay
// available for fresh accounts.
func AggregateTrades(trades []*domain.Trade) AccountMetrics {
	closed, open := SplitByStatus(trades)

	m := AccountMetrics{
		TotalTrades:  len(trades),
		ClosedTrades: len(closed),
		OpenTrades:   len(open),
	}

	for _, t := range trades {
		m.TotalCosts += t.TotalCosts()
	}

	var winners, losers int
	var winSum, lossSum float64
	for _, t := range closed {
		net := t.NetPnL()
		m.TotalPnL += net
		m.TotalGrossPnL += t.GrossPnL()
		if net > 0 {
			winners++
			winSum += net
		} else {
			losers++
			lossSum += net
		}
	}

	if len(closed) > 0 {
		m.WinRate = float64(winners) / float64(len(closed)) * 100
	}
	if winners > 0 {
		m.AvgWin = winSum / float64(winners)
	}
	if losers > 0 {
		m.AvgLoss = lossSum / float64(losers)
	}
	if lossSum != 0 {
		m.ProfitFactor = winSum / -lossSum
	}

	// Trades whose R-multiple is exactly 0 are excluded: they are almost
	// always the no-stop-loss configuration, not a genuine break-even R.
	var rSum float64
	var rCount int
	for _, t := range closed {
		if r := t.RMultiple(); r != 0 {
			rSum += r
			rCount++
		}
	}
	if rCount > 0 {
		m.AvgRMultiple = rSum / float64(rCount)
	}

	return m
}

// Expectancy returns the probability-weighted expected P&L per trade.
// avgLossMagnitude is the positive mean size of a losing trade.
func Expectancy(winRate, avgWin, avgLossMagnitude float64) float64 {
	return (winRate/100)*avgWin - ((100-winRate)/100)*avgLossMagnitude
}

// Streaks scans closed trades in creation order and counts the longest win
// and loss runs. Break-even counts as a loss, consistent with AvgLoss.
func Streaks(closed []*domain.Trade) PerformanceStreaks {
	ordered := make([]*domain.Trade, len(closed))
	copy(ordered, closed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var s PerformanceStreaks
	var wins, losses int
	for _, t := range ordered {
		if t.NetPnL() > 0 {
			wins++
			losses = 0
			if wins > s.MaxConsecutiveWins {
				s.MaxConsecutiveWins = wins
			}
		} else {
			losses++
			wins = 0
			if losses > s.MaxConsecutiveLosses {
				s.MaxConsecutiveLosses = losses
			}
		}
	}
	return s
}

// BestAndWorst returns the closed trades with the highest and lowest net P&L,
// nil when there are none.
func BestAndWorst(closed []*domain.Trade) (best, worst *domain.Trade) {
	for _, t := range closed {
		if best == nil || t.NetPnL() > best.NetPnL() {
			best = t
		}
		if worst == nil || t.NetPnL() < worst.NetPnL() {
			worst = t
		}
	}
	return best, worst
}

// GroupByInstrument rolls closed trades up per instrument symbol, in first-seen
// order.
func GroupByInstrument(closed []*domain.Trade) []GroupPerformance {
	return groupBy(closed, func(t *domain.Trade) string {
		return t.Instrument
	})
}

// GroupByRiskType rolls closed trades up per linked risk type name; trades
// without one fall under the "Unassigned" label.
func GroupByRiskType(closed []*domain.Trade, names map[uuid.UUID]string) []GroupPerformance {
	return groupBy(closed, func(t *domain.Trade) string {
		if t.RiskTypeID != nil {
			if name, ok := names[*t.RiskTypeID]; ok {
				return name
			}
		}
		return domain.UnassignedRiskType
	})
}

func groupBy(closed []*domain.Trade, label func(*domain.Trade) string) []GroupPerformance {
	type bucket struct {
		trades int
		pnl    float64
		wins   int
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, t := range closed {
		key := label(t)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.trades++
		net := t.NetPnL()
		b.pnl += net
		if net > 0 {
			b.wins++
		}
	}

	groups := make([]GroupPerformance, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		winRate := 0.0
		if b.trades > 0 {
			winRate = float64(b.wins) / float64(b.trades) * 100
		}
		groups = append(groups, GroupPerformance{
			Label:   key,
			Trades:  b.trades,
			PnL:     b.pnl,
			WinRate: winRate,
		})
	}
	return groups
}

// RankAccounts sorts performances by P&L percentage descending (stable, so
// equal percentages keep insertion order) and picks the top and bottom three.
// The bottom list is only populated when more than three accounts exist.
func RankAccounts(performances []AccountPerformance) (ranked, top, bottom []AccountPerformance) {
	ranked = make([]AccountPerformance, len(performances))
	copy(ranked, performances)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PnLPercentage > ranked[j].PnLPercentage
	})

	n := len(ranked)
	if n > 3 {
		top = ranked[:3]
		bottom = ranked[n-3:]
	} else {
		top = ranked
	}
	return ranked, top, bottom
}
