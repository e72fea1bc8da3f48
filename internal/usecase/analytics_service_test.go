package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradevine/internal/adapter"
	"tradevine/internal/domain"
)

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type analyticsFixture struct {
	userID   uuid.UUID
	users    *memUserRepo
	accounts *memAccountRepo
	trades   *memTradeRepo
	svc      *AnalyticsService
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()

	users := newMemUserRepo()
	accounts := newMemAccountRepo()
	trades := newMemTradeRepo(accounts)

	userID := uuid.New()
	users.users[userID] = &domain.User{
		ID:              userID,
		Email:           "trader@example.com",
		PrimaryCurrency: "USD",
	}

	return &analyticsFixture{
		userID:   userID,
		users:    users,
		accounts: accounts,
		trades:   trades,
		svc: NewAnalyticsService(
			users, accounts, trades, newMemClassificationRepo(),
			adapter.NewFixedRateProvider(), zap.NewNop()),
	}
}

func (f *analyticsFixture) addAccount(initial float64) uuid.UUID {
	id := uuid.New()
	f.accounts.accounts[id] = &domain.Account{
		ID:             id,
		UserID:         f.userID,
		Name:           "Main",
		BaseCurrency:   "USD",
		InitialCapital: initial,
		CurrentBalance: initial,
		TradingModel:   domain.ModelMediumRisk,
	}
	return id
}

func (f *analyticsFixture) addClosedTrade(accountID uuid.UUID, netPnL float64) {
	trade := closedTrade(netPnL)
	trade.AccountID = accountID
	f.trades.trades[trade.ID] = trade
}

func TestGetAccountDashboard_RefreshesBalance(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	accountID := f.addAccount(10000)
	f.addClosedTrade(accountID, 150)
	f.addClosedTrade(accountID, -50)

	dashboard, err := f.svc.GetAccountDashboard(context.Background(), f.userID, accountID)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, dashboard.Metrics.TotalPnL, 1e-9)
	assert.InDelta(t, 10100.0, dashboard.Account.CurrentBalance, 1e-9)
	assert.InDelta(t, 1.0, dashboard.PnLPercentage, 1e-9)
	assert.Len(t, dashboard.RecentTrades, 2)

	// The refreshed balance is persisted, not just returned.
	stored := f.accounts.accounts[accountID]
	assert.InDelta(t, 10100.0, stored.CurrentBalance, 1e-9)
}

func TestGetAccountDashboard_EmptyAccount(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	accountID := f.addAccount(10000)

	dashboard, err := f.svc.GetAccountDashboard(context.Background(), f.userID, accountID)
	require.NoError(t, err)

	assert.Zero(t, dashboard.Metrics.TotalTrades)
	assert.Zero(t, dashboard.Metrics.WinRate)
	assert.InDelta(t, 10000.0, dashboard.Account.CurrentBalance, 1e-9)
	assert.Empty(t, dashboard.RecentTrades)
}

func TestGetAccountAnalytics(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	accountID := f.addAccount(10000)
	f.addClosedTrade(accountID, 100)
	f.addClosedTrade(accountID, -40)

	analytics, err := f.svc.GetAccountAnalytics(context.Background(), f.userID, accountID)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, analytics.Metrics.WinRate, 1e-9)
	// 0.5*100 - 0.5*40
	assert.InDelta(t, 30.0, analytics.Expectancy, 1e-9)
	require.NotNil(t, analytics.BestTrade)
	require.NotNil(t, analytics.WorstTrade)
	assert.InDelta(t, 100.0, analytics.BestTrade.NetPnL(), 1e-9)
	assert.InDelta(t, -40.0, analytics.WorstTrade.NetPnL(), 1e-9)
	require.Len(t, analytics.ByRiskType, 1)
	assert.Equal(t, domain.UnassignedRiskType, analytics.ByRiskType[0].Label)
}

func TestGetPortfolioDashboard(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	a1 := f.addAccount(10000)
	a2 := f.addAccount(5000)
	f.addClosedTrade(a1, 500)
	f.addClosedTrade(a2, -250)

	limit := 20.0
	f.accounts.accounts[a2].MaxDrawdown = &limit

	dashboard, err := f.svc.GetPortfolioDashboard(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.Portfolio.TotalAccounts)
	assert.InDelta(t, 15250.0, dashboard.Portfolio.TotalBalance, 1e-9)
	assert.InDelta(t, 15000.0, dashboard.Portfolio.TotalInitialCapital, 1e-9)
	assert.InDelta(t, 250.0, dashboard.Portfolio.TotalPnL, 1e-9)
	assert.InDelta(t, 20.0, dashboard.Portfolio.MaxDrawdown, 1e-9)
	assert.Equal(t, "USD", dashboard.Portfolio.PrimaryCurrency)

	require.Len(t, dashboard.Accounts, 2)
	// +5% account ranks above the -5% one.
	assert.InDelta(t, 5.0, dashboard.Accounts[0].PnLPercentage, 1e-9)
	assert.Len(t, dashboard.TopPerformers, 2)
	assert.Empty(t, dashboard.BottomPerformers)
}

func TestGetPortfolioDashboard_NoAccounts(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)

	dashboard, err := f.svc.GetPortfolioDashboard(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Zero(t, dashboard.Portfolio.TotalAccounts)
	assert.NotNil(t, dashboard.Accounts)
	assert.Empty(t, dashboard.Accounts)
	assert.Empty(t, dashboard.TopPerformers)
	assert.Empty(t, dashboard.BottomPerformers)
}

func TestExportAccountCSV(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	accountID := f.addAccount(10000)
	f.addClosedTrade(accountID, 100)

	data, filename, err := f.svc.ExportAccountCSV(context.Background(), f.userID, accountID)
	require.NoError(t, err)

	assert.Equal(t, "Main_trades_export.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Trade ID,"))
	assert.Contains(t, lines[1], "EURUSD")
	assert.Contains(t, lines[1], "100.00")
}

func TestExportAccountCSV_ForeignAccount(t *testing.T) {
	t.Parallel()
	f := newAnalyticsFixture(t)
	accountID := f.addAccount(10000)

	_, _, err := f.svc.ExportAccountCSV(context.Background(), uuid.New(), accountID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
