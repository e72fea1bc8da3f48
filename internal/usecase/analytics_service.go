package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradevine/internal/adapter"
	"tradevine/internal/domain"
)

// AnalyticsService assembles the account, analytics and portfolio views.
// Dashboard-style reads refresh the cached account balance as part of the
// rollup; everything else is read-only.
type AnalyticsService struct {
	userRepo           domain.UserRepository
	accountRepo        domain.AccountRepository
	tradeRepo          domain.TradeRepository
	classificationRepo domain.ClassificationRepository
	rates              adapter.RateProvider
	log                *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	userRepo domain.UserRepository,
	accountRepo domain.AccountRepository,
	tradeRepo domain.TradeRepository,
	classificationRepo domain.ClassificationRepository,
	rates adapter.RateProvider,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		userRepo:           userRepo,
		accountRepo:        accountRepo,
		tradeRepo:          tradeRepo,
		classificationRepo: classificationRepo,
		rates:              rates,
		log:                log,
	}
}

// AccountDashboard is the per-account metric bundle.
type AccountDashboard struct {
	Account         *domain.Account
	Metrics         AccountMetrics
	PnLPercentage   float64
	CurrentDrawdown float64
	RecentTrades    []*domain.Trade
}

// AccountAnalytics is the extended analytics bundle.
type AccountAnalytics struct {
	Account      *domain.Account
	Metrics      AccountMetrics
	Expectancy   float64
	Streaks      PerformanceStreaks
	BestTrade    *domain.Trade
	WorstTrade   *domain.Trade
	ByInstrument []GroupPerformance
	ByRiskType   []GroupPerformance
}

// PortfolioSummary is the cross-account rollup.
type PortfolioSummary struct {
	TotalAccounts       int
	TotalBalance        float64
	TotalInitialCapital float64
	TotalPnL            float64
	TotalPnLPercentage  float64
	// MaxDrawdown is the largest configured drawdown limit across accounts,
	// a display of risk limits rather than a realized drawdown.
	MaxDrawdown       float64
	TotalOpenTrades   int
	TotalClosedTrades int
	PrimaryCurrency   string
}

// PortfolioDashboard combines the portfolio rollup with per-account
// performance and rankings.
type PortfolioDashboard struct {
	Portfolio        PortfolioSummary
	Accounts         []AccountPerformance
	TopPerformers    []AccountPerformance
	BottomPerformers []AccountPerformance
}

// GetAccountDashboard rolls one account's trades up and persists the
// refreshed balance cache.
func (s *AnalyticsService) GetAccountDashboard(ctx context.Context, userID, accountID uuid.UUID) (*AccountDashboard, error) {
	account, err := s.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.ListByAccount(ctx, accountID, domain.TradeFilter{})
	if err != nil {
		return nil, err
	}

	metrics := AggregateTrades(trades)

	account.CurrentBalance = account.InitialCapital + metrics.TotalPnL
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, account.CurrentBalance); err != nil {
		return nil, err
	}

	recent := trades
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return &AccountDashboard{
		Account:         account,
		Metrics:         metrics,
		PnLPercentage:   account.PnLPercentage(),
		CurrentDrawdown: account.CurrentDrawdown(),
		RecentTrades:    recent,
	}, nil
}

// GetAccountAnalytics assembles the extended analytics bundle. Read-only with
// respect to the balance cache.
func (s *AnalyticsService) GetAccountAnalytics(ctx context.Context, userID, accountID uuid.UUID) (*AccountAnalytics, error) {
	account, err := s.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	trades, err := s.tradeRepo.ListByAccount(ctx, accountID, domain.TradeFilter{})
	if err != nil {
		return nil, err
	}

	metrics := AggregateTrades(trades)
	closed, _ := SplitByStatus(trades)
	best, worst := BestAndWorst(closed)

	riskTypes, err := s.classificationRepo.ListRiskTypes(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(riskTypes))
	for _, rt := range riskTypes {
		names[rt.ID] = rt.Name
	}

	return &AccountAnalytics{
		Account:      account,
		Metrics:      metrics,
		Expectancy:   Expectancy(metrics.WinRate, metrics.AvgWin, -metrics.AvgLoss),
		Streaks:      Streaks(closed),
		BestTrade:    best,
		WorstTrade:   worst,
		ByInstrument: GroupByInstrument(closed),
		ByRiskType:   GroupByRiskType(closed, names),
	}, nil
}

// GetPortfolioDashboard aggregates across all of the user's accounts,
// refreshing each account's balance cache on the way. Balances are converted
// through the rate provider, which is currently a fixed 1:1 stub, so
// cross-currency portfolios sum raw figures.
func (s *AnalyticsService) GetPortfolioDashboard(ctx context.Context, userID uuid.UUID) (*PortfolioDashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &PortfolioDashboard{
		Portfolio: PortfolioSummary{
			TotalAccounts:   len(accounts),
			PrimaryCurrency: user.PrimaryCurrency,
		},
		Accounts:         []AccountPerformance{},
		TopPerformers:    []AccountPerformance{},
		BottomPerformers: []AccountPerformance{},
	}
	if len(accounts) == 0 {
		return dashboard, nil
	}

	performances := make([]AccountPerformance, 0, len(accounts))
	for _, account := range accounts {
		trades, err := s.tradeRepo.ListByAccount(ctx, account.ID, domain.TradeFilter{})
		if err != nil {
			return nil, err
		}

		metrics := AggregateTrades(trades)

		account.CurrentBalance = account.InitialCapital + metrics.TotalPnL
		if err := s.accountRepo.UpdateBalance(ctx, account.ID, account.CurrentBalance); err != nil {
			return nil, err
		}

		rate := s.rates.Rate(account.BaseCurrency, user.PrimaryCurrency)
		dashboard.Portfolio.TotalBalance += account.CurrentBalance * rate
		dashboard.Portfolio.TotalInitialCapital += account.InitialCapital * rate
		dashboard.Portfolio.TotalOpenTrades += metrics.OpenTrades
		dashboard.Portfolio.TotalClosedTrades += metrics.ClosedTrades

		if account.MaxDrawdown != nil && *account.MaxDrawdown > dashboard.Portfolio.MaxDrawdown {
			dashboard.Portfolio.MaxDrawdown = *account.MaxDrawdown
		}

		performances = append(performances, AccountPerformance{
			Account:       account,
			PnL:           metrics.TotalPnL,
			PnLPercentage: account.PnLPercentage(),
			OpenTrades:    metrics.OpenTrades,
			ClosedTrades:  metrics.ClosedTrades,
		})
	}

	dashboard.Portfolio.TotalPnL = dashboard.Portfolio.TotalBalance - dashboard.Portfolio.TotalInitialCapital
	if dashboard.Portfolio.TotalInitialCapital > 0 {
		dashboard.Portfolio.TotalPnLPercentage =
			dashboard.Portfolio.TotalPnL / dashboard.Portfolio.TotalInitialCapital * 100
	}

	ranked, top, bottom := RankAccounts(performances)
	dashboard.Accounts = ranked
	dashboard.TopPerformers = top
	dashboard.BottomPerformers = bottom

	return dashboard, nil
}

// ExportAccountCSV renders the account's trade register as CSV. Monetary
// figures are rounded to two decimals here, at the presentation boundary.
func (s *AnalyticsService) ExportAccountCSV(ctx context.Context, userID, accountID uuid.UUID) ([]byte, string, error) {
	account, err := s.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, "", err
	}

	trades, err := s.tradeRepo.ListByAccount(ctx, accountID, domain.TradeFilter{})
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Trade ID", "Name", "Instrument", "Direction", "Status",
		"Avg Entry", "Avg Exit", "Quantity Entered", "Quantity Exited",
		"Stop Loss", "Take Profit", "Gross P&L", "Net P&L", "Total Costs",
		"R-Multiple", "Notes",
	}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range trades {
		row := []string{
			t.ID.String(),
			t.Name,
			t.Instrument,
			t.Direction,
			t.Status,
			formatPrice(t.WeightedAvgEntry()),
			formatPrice(t.WeightedAvgExit()),
			formatPrice(t.TotalQuantityEntered()),
			formatPrice(t.TotalQuantityExited()),
			formatOptionalPrice(t.StopLossPrice),
			formatOptionalPrice(t.TakeProfitPrice),
			formatMoney(t.GrossPnL()),
			formatMoney(t.NetPnL()),
			formatMoney(t.TotalCosts()),
			formatMoney(t.RMultiple()),
			t.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("%s_trades_export.csv", account.Name)
	return buf.Bytes(), filename, nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatPrice keeps ledger precision, up to 8 decimals with trailing zeros
// trimmed.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 8, 64)
	s = trimTrailingZeros(s)
	return s
}

func formatOptionalPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return formatPrice(*v)
}

func trimTrailingZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
