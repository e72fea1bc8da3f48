package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradevine/internal/domain"
)

type stubAccountRepo struct {
	account *domain.Account
}

func (s *stubAccountRepo) Create(ctx context.Context, account *domain.Account) error { return nil }
func (s *stubAccountRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	if s.account == nil || s.account.ID != id || s.account.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.account, nil
}
func (s *stubAccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return nil, nil
}
func (s *stubAccountRepo) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.account, nil
}
func (s *stubAccountRepo) GetAll(ctx context.Context) ([]*domain.Account, error) { return nil, nil }
func (s *stubAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	return nil
}
func (s *stubAccountRepo) Delete(ctx context.Context, userID, id uuid.UUID) error { return nil }
func (s *stubAccountRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error {
	return nil
}

type stubTradeRepo struct {
	recent []*domain.Trade
}

func (s *stubTradeRepo) Create(ctx context.Context, trade *domain.Trade, tagIDs []uuid.UUID) error {
	return nil
}
func (s *stubTradeRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Trade, error) {
	return nil, domain.ErrNotFound
}
func (s *stubTradeRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) ([]*domain.Trade, error) {
	return nil, nil
}
func (s *stubTradeRepo) ListRecentClosed(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.Trade, error) {
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}
func (s *stubTradeRepo) Update(ctx context.Context, trade *domain.Trade) error { return nil }
func (s *stubTradeRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (s *stubTradeRepo) AddEntry(ctx context.Context, entry *domain.Entry) error {
	return nil
}
func (s *stubTradeRepo) AddExit(ctx context.Context, exit *domain.Exit) error { return nil }
func (s *stubTradeRepo) AddCost(ctx context.Context, cost *domain.Cost) error { return nil }

// netTrade builds a closed trade with the given net P&L.
func netTrade(netPnL float64) *domain.Trade {
	return &domain.Trade{
		ID:        uuid.New(),
		Direction: domain.DirectionLong,
		Status:    domain.StatusClosed,
		Entries:   []*domain.Entry{{Price: 100, Quantity: 1}},
		Exits:     []*domain.Exit{{Price: 100 + netPnL, Quantity: 1}},
	}
}

func suggestionFixture(account *domain.Account, recent []*domain.Trade) *SuggestionService {
	return NewSuggestionService(
		&stubAccountRepo{account: account},
		&stubTradeRepo{recent: recent},
		zap.NewNop(),
	)
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		InitialCapital: 10000,
		CurrentBalance: 10000,
		TradingModel:   domain.ModelMediumRisk,
	}
}

func TestRiskSuggestions_NoTrades(t *testing.T) {
	t.Parallel()

	account := testAccount()
	svc := suggestionFixture(account, nil)

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 1)
	assert.Equal(t, "info", advice.Suggestions[0].Type)
	assert.InDelta(t, 1.0, advice.Suggestions[0].SuggestedRisk, 1e-9)
	assert.Zero(t, advice.RecentPerformance.TradesAnalyzed)
}

func TestRiskSuggestions_DrawdownWarning(t *testing.T) {
	t.Parallel()

	account := testAccount()
	account.CurrentBalance = 9000 // 10% drawdown

	// Strong recent trades; drawdown still outranks them in the ladder.
	svc := suggestionFixture(account, []*domain.Trade{netTrade(50), netTrade(60)})

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 1)
	assert.Equal(t, "warning", advice.Suggestions[0].Type)
	assert.InDelta(t, 0.5, advice.Suggestions[0].SuggestedRisk, 1e-9)
	assert.InDelta(t, 10.0, advice.CurrentDrawdown, 1e-9)
}

func TestRiskSuggestions_LowWinRate(t *testing.T) {
	t.Parallel()

	account := testAccount()
	svc := suggestionFixture(account, []*domain.Trade{
		netTrade(10), netTrade(-10), netTrade(-10), netTrade(-10),
	})

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 1)
	assert.Equal(t, "caution", advice.Suggestions[0].Type)
	assert.InDelta(t, 0.75, advice.Suggestions[0].SuggestedRisk, 1e-9)
	assert.InDelta(t, 25.0, advice.RecentPerformance.WinRate, 1e-9)
}

func TestRiskSuggestions_StrongPerformance(t *testing.T) {
	t.Parallel()

	account := testAccount()
	svc := suggestionFixture(account, []*domain.Trade{
		netTrade(10), netTrade(20), netTrade(30), netTrade(-5),
	})

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 1)
	assert.Equal(t, "positive", advice.Suggestions[0].Type)
	assert.InDelta(t, 1.5, advice.Suggestions[0].SuggestedRisk, 1e-9)
}

func TestRiskSuggestions_Neutral(t *testing.T) {
	t.Parallel()

	account := testAccount()
	svc := suggestionFixture(account, []*domain.Trade{
		netTrade(10), netTrade(-10),
	})

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 1)
	assert.Equal(t, "neutral", advice.Suggestions[0].Type)
	assert.InDelta(t, 1.0, advice.Suggestions[0].SuggestedRisk, 1e-9)
}

func TestRiskSuggestions_ModelAdvisoryIsIndependent(t *testing.T) {
	t.Parallel()

	account := testAccount()
	account.TradingModel = domain.ModelHighRisk
	svc := suggestionFixture(account, []*domain.Trade{
		netTrade(10), netTrade(-10),
	})

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	// Ladder line plus the model advisory.
	require.Len(t, advice.Suggestions, 2)
	assert.Equal(t, "neutral", advice.Suggestions[0].Type)
	assert.InDelta(t, 2.5, advice.Suggestions[1].SuggestedRisk, 1e-9)
}

func TestRiskSuggestions_RiskFreeModel(t *testing.T) {
	t.Parallel()

	account := testAccount()
	account.TradingModel = domain.ModelRiskFree
	svc := suggestionFixture(account, nil)

	advice, err := svc.GetRiskSuggestions(context.Background(), account.UserID, account.ID)
	require.NoError(t, err)

	require.Len(t, advice.Suggestions, 2)
	assert.InDelta(t, 0.25, advice.Suggestions[1].SuggestedRisk, 1e-9)
}

func TestRiskSuggestions_AccountNotFound(t *testing.T) {
	t.Parallel()

	svc := suggestionFixture(testAccount(), nil)

	_, err := svc.GetRiskSuggestions(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
