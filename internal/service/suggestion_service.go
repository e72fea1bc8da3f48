package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradevine/internal/domain"
)

// How many recently updated closed trades feed the heuristic.
const recentTradeWindow = 10

// Drawdown and win-rate thresholds for the suggestion ladder.
const (
	drawdownWarningPct = 5
	lowWinRatePct      = 40
	highWinRatePct     = 70
)

// RiskSuggestion is one advisory line.
type RiskSuggestion struct {
	Type          string  `json:"type"`
	Message       string  `json:"message"`
	SuggestedRisk float64 `json:"suggested_risk"`
}

// RecentPerformance summarizes the trades the heuristic looked at.
type RecentPerformance struct {
	TradesAnalyzed int     `json:"trades_analyzed"`
	WinRate        float64 `json:"win_rate"`
	TotalPnL       float64 `json:"total_pnl"`
}

// RiskAdvice is the full suggestion bundle for one account.
type RiskAdvice struct {
	Account           *domain.Account
	Suggestions       []RiskSuggestion
	CurrentDrawdown   float64
	RecentPerformance RecentPerformance
}

// SuggestionService derives advisory risk guidance from recent performance.
// It is a heuristic, not a rule engine: the output is text plus a suggested
// risk percentage, never an enforced limit.
type SuggestionService struct {
	accountRepo domain.AccountRepository
	tradeRepo   domain.TradeRepository
	log         *zap.Logger
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(
	accountRepo domain.AccountRepository,
	tradeRepo domain.TradeRepository,
	log *zap.Logger,
) *SuggestionService {
	return &SuggestionService{
		accountRepo: accountRepo,
		tradeRepo:   tradeRepo,
		log:         log,
	}
}

// GetRiskSuggestions evaluates the suggestion ladder over the account's most
// recently updated closed trades. The first matching rule wins; a second,
// independent advisory is appended for High Risk and Risk-Free trading
// models.
func (s *SuggestionService) GetRiskSuggestions(ctx context.Context, userID, accountID uuid.UUID) (*RiskAdvice, error) {
	account, err := s.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	recent, err := s.tradeRepo.ListRecentClosed(ctx, accountID, recentTradeWindow)
	if err != nil {
		return nil, err
	}

	advice := &RiskAdvice{
		Account:         account,
		CurrentDrawdown: account.CurrentDrawdown(),
	}

	if len(recent) == 0 {
		advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
			Type:          "info",
			Message:       "No recent trades found. Start with conservative risk (1% per trade).",
			SuggestedRisk: 1.0,
		})
	} else {
		var totalPnL float64
		var wins int
		for _, t := range recent {
			net := t.NetPnL()
			totalPnL += net
			if net > 0 {
				wins++
			}
		}
		winRate := float64(wins) / float64(len(recent)) * 100

		advice.RecentPerformance = RecentPerformance{
			TradesAnalyzed: len(recent),
			WinRate:        winRate,
			TotalPnL:       totalPnL,
		}

		switch {
		case advice.CurrentDrawdown > drawdownWarningPct:
			advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
				Type: "warning",
				Message: fmt.Sprintf("Account is in %.1f%% drawdown. Consider reducing risk.",
					advice.CurrentDrawdown),
				SuggestedRisk: 0.5,
			})
		case winRate < lowWinRatePct:
			advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
				Type: "caution",
				Message: fmt.Sprintf("Recent win rate is %.1f%%. Consider reducing risk until performance improves.",
					winRate),
				SuggestedRisk: 0.75,
			})
		case winRate > highWinRatePct && totalPnL > 0:
			advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
				Type: "positive",
				Message: fmt.Sprintf("Strong recent performance (%.1f%% win rate). You may consider slightly increasing risk.",
					winRate),
				SuggestedRisk: 1.5,
			})
		default:
			advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
				Type:          "neutral",
				Message:       "Performance is stable. Maintain current risk level.",
				SuggestedRisk: 1.0,
			})
		}
	}

	// Trading-model advisory, independent of the performance ladder.
	switch account.TradingModel {
	case domain.ModelHighRisk:
		advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
			Type:          "info",
			Message:       "High Risk mode: Consider 2-3% risk per trade for aggressive growth.",
			SuggestedRisk: 2.5,
		})
	case domain.ModelRiskFree:
		advice.Suggestions = append(advice.Suggestions, RiskSuggestion{
			Type:          "info",
			Message:       "Risk-Free mode: Keep risk minimal (0.1-0.5% per trade).",
			SuggestedRisk: 0.25,
		})
	}

	return advice, nil
}
