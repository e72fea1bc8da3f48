package dto

import (
	"tradevine/internal/usecase"
)

// AccountDashboardOutput is the account dashboard response
type AccountDashboardOutput struct {
	Account      *AccountOutput    `json:"account"`
	Analytics    AccountMetricsOut `json:"analytics"`
	RecentTrades []*TradeOutput    `json:"recent_trades"`
}

// AccountMetricsOut is the rolled-up metric block of the dashboard
type AccountMetricsOut struct {
	TotalTrades     int     `json:"total_trades"`
	ClosedTrades    int     `json:"closed_trades"`
	OpenTrades      int     `json:"open_trades"`
	TotalPnL        float64 `json:"total_pnl"`
	TotalGrossPnL   float64 `json:"total_gross_pnl"`
	TotalCosts      float64 `json:"total_costs"`
	PnLPercentage   float64 `json:"pnl_percentage"`
	CurrentDrawdown float64 `json:"current_drawdown"`
	WinRate         float64 `json:"win_rate"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	AvgRMultiple    float64 `json:"avg_r_multiple"`
	ProfitFactor    float64 `json:"profit_factor"`
}

// NewAccountDashboardOutput converts the dashboard bundle to its API shape
func NewAccountDashboardOutput(d *usecase.AccountDashboard) *AccountDashboardOutput {
	return &AccountDashboardOutput{
		Account: NewAccountOutput(d.Account),
		Analytics: AccountMetricsOut{
			TotalTrades:     d.Metrics.TotalTrades,
			ClosedTrades:    d.Metrics.ClosedTrades,
			OpenTrades:      d.Metrics.OpenTrades,
			TotalPnL:        Round2(d.Metrics.TotalPnL),
			TotalGrossPnL:   Round2(d.Metrics.TotalGrossPnL),
			TotalCosts:      Round2(d.Metrics.TotalCosts),
			PnLPercentage:   Round2(d.PnLPercentage),
			CurrentDrawdown: Round2(d.CurrentDrawdown),
			WinRate:         Round2(d.Metrics.WinRate),
			AvgWin:          Round2(d.Metrics.AvgWin),
			AvgLoss:         Round2(d.Metrics.AvgLoss),
			AvgRMultiple:    Round2(d.Metrics.AvgRMultiple),
			ProfitFactor:    Round2(d.Metrics.ProfitFactor),
		},
		RecentTrades: NewTradeOutputs(d.RecentTrades),
	}
}

// GroupPerformanceOutput is one per-label performance row
type GroupPerformanceOutput struct {
	Label   string  `json:"label"`
	Trades  int     `json:"trades"`
	PnL     float64 `json:"pnl"`
	WinRate float64 `json:"win_rate"`
}

// AccountAnalyticsOutput is the extended analytics response
type AccountAnalyticsOutput struct {
	Account              *AccountOutput           `json:"account"`
	TotalTrades          int                      `json:"total_trades"`
	ClosedTrades         int                      `json:"closed_trades"`
	WinRate              float64                  `json:"win_rate"`
	ProfitFactor         float64                  `json:"profit_factor"`
	AvgRMultiple         float64                  `json:"avg_r_multiple"`
	Expectancy           float64                  `json:"expectancy"`
	MaxConsecutiveWins   int                      `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int                      `json:"max_consecutive_losses"`
	BestTrade            *TradeOutput             `json:"best_trade"`
	WorstTrade           *TradeOutput             `json:"worst_trade"`
	ByInstrument         []GroupPerformanceOutput `json:"performance_by_instrument"`
	ByRiskType           []GroupPerformanceOutput `json:"performance_by_risk_type"`
}

// NewAccountAnalyticsOutput converts the analytics bundle to its API shape
func NewAccountAnalyticsOutput(a *usecase.AccountAnalytics) *AccountAnalyticsOutput {
	out := &AccountAnalyticsOutput{
		Account:              NewAccountOutput(a.Account),
		TotalTrades:          a.Metrics.TotalTrades,
		ClosedTrades:         a.Metrics.ClosedTrades,
		WinRate:              Round2(a.Metrics.WinRate),
		ProfitFactor:         Round2(a.Metrics.ProfitFactor),
		AvgRMultiple:         Round2(a.Metrics.AvgRMultiple),
		Expectancy:           Round2(a.Expectancy),
		MaxConsecutiveWins:   a.Streaks.MaxConsecutiveWins,
		MaxConsecutiveLosses: a.Streaks.MaxConsecutiveLosses,
		ByInstrument:         newGroupOutputs(a.ByInstrument),
		ByRiskType:           newGroupOutputs(a.ByRiskType),
	}
	if a.BestTrade != nil {
		out.BestTrade = NewTradeOutput(a.BestTrade)
	}
	if a.WorstTrade != nil {
		out.WorstTrade = NewTradeOutput(a.WorstTrade)
	}
	return out
}

func newGroupOutputs(groups []usecase.GroupPerformance) []GroupPerformanceOutput {
	outputs := make([]GroupPerformanceOutput, 0, len(groups))
	for _, g := range groups {
		outputs = append(outputs, GroupPerformanceOutput{
			Label:   g.Label,
			Trades:  g.Trades,
			PnL:     Round2(g.PnL),
			WinRate: Round2(g.WinRate),
		})
	}
	return outputs
}

// AccountPerformanceOutput is one account's row in the portfolio view
type AccountPerformanceOutput struct {
	Account       *AccountOutput `json:"account"`
	PnL           float64        `json:"pnl"`
	PnLPercentage float64        `json:"pnl_percentage"`
	OpenTrades    int            `json:"open_trades"`
	ClosedTrades  int            `json:"closed_trades"`
}

// PortfolioSummaryOutput is the cross-account rollup block
type PortfolioSummaryOutput struct {
	TotalAccounts       int     `json:"total_accounts"`
	TotalBalance        float64 `json:"total_balance"`
	TotalInitialCapital float64 `json:"total_initial_capital"`
	TotalPnL            float64 `json:"total_pnl"`
	TotalPnLPercentage  float64 `json:"total_pnl_percentage"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	TotalOpenTrades     int     `json:"total_open_trades"`
	TotalClosedTrades   int     `json:"total_closed_trades"`
	PrimaryCurrency     string  `json:"primary_currency"`
}

// PortfolioDashboardOutput is the portfolio dashboard response
type PortfolioDashboardOutput struct {
	Portfolio        PortfolioSummaryOutput     `json:"portfolio"`
	Accounts         []AccountPerformanceOutput `json:"accounts"`
	TopPerformers    []AccountPerformanceOutput `json:"top_performers"`
	BottomPerformers []AccountPerformanceOutput `json:"bottom_performers"`
}

// NewPortfolioDashboardOutput converts the portfolio bundle to its API shape
func NewPortfolioDashboardOutput(d *usecase.PortfolioDashboard) *PortfolioDashboardOutput {
	return &PortfolioDashboardOutput{
		Portfolio: PortfolioSummaryOutput{
			TotalAccounts:       d.Portfolio.TotalAccounts,
			TotalBalance:        Round2(d.Portfolio.TotalBalance),
			TotalInitialCapital: Round2(d.Portfolio.TotalInitialCapital),
			TotalPnL:            Round2(d.Portfolio.TotalPnL),
			TotalPnLPercentage:  Round2(d.Portfolio.TotalPnLPercentage),
			MaxDrawdown:         Round2(d.Portfolio.MaxDrawdown),
			TotalOpenTrades:     d.Portfolio.TotalOpenTrades,
			TotalClosedTrades:   d.Portfolio.TotalClosedTrades,
			PrimaryCurrency:     d.Portfolio.PrimaryCurrency,
		},
		Accounts:         newPerformanceOutputs(d.Accounts),
		TopPerformers:    newPerformanceOutputs(d.TopPerformers),
		BottomPerformers: newPerformanceOutputs(d.BottomPerformers),
	}
}

func newPerformanceOutputs(performances []usecase.AccountPerformance) []AccountPerformanceOutput {
	outputs := make([]AccountPerformanceOutput, 0, len(performances))
	for _, p := range performances {
		outputs = append(outputs, AccountPerformanceOutput{
			Account:       NewAccountOutput(p.Account),
			PnL:           Round2(p.PnL),
			PnLPercentage: Round2(p.PnLPercentage),
			OpenTrades:    p.OpenTrades,
			ClosedTrades:  p.ClosedTrades,
		})
	}
	return outputs
}
