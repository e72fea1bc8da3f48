package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradevine/internal/domain"
)

// TradeService handles trade ledger mutations. Every mutation ends with a
// refresh of the owning account's cached balance so reads never have to
// recompute it lazily.
type TradeService struct {
	tradeRepo          domain.TradeRepository
	accountRepo        domain.AccountRepository
	classificationRepo domain.ClassificationRepository
	log                *zap.Logger
}

// NewTradeService creates a new TradeService
func NewTradeService(
	tradeRepo domain.TradeRepository,
	accountRepo domain.AccountRepository,
	classificationRepo domain.ClassificationRepository,
	log *zap.Logger,
) *TradeService {
	return &TradeService{
		tradeRepo:          tradeRepo,
		accountRepo:        accountRepo,
		classificationRepo: classificationRepo,
		log:                log,
	}
}

// CreateTradeInput carries everything needed to open a journal entry,
// including an optional initial fill, costs and strategy tag links.
type CreateTradeInput struct {
	Name            string
	Instrument      string
	Direction       string
	Status          string
	StopLossPrice   *float64
	TakeProfitPrice *float64
	RiskTypeID      *uuid.UUID
	Notes           string

	InitialEntry *FillInput
	Costs        []CostInput
	StrategyTags []uuid.UUID
}

// FillInput is one entry or exit fill.
type FillInput struct {
	FilledAt   time.Time
	Price      float64
	Quantity   float64
	Commission float64
	Reason     string // exits only
}

// CostInput is one ad-hoc charge.
type CostInput struct {
	Type        string
	Amount      float64
	Description string
}

// UpdateTradeInput carries partial trade updates; nil fields stay unchanged.
type UpdateTradeInput struct {
	Name            *string
	Instrument      *string
	Direction       *string
	Status          *string
	StopLossPrice   *float64
	TakeProfitPrice *float64
	RiskTypeID      *uuid.UUID
	Notes           *string
}

func validDirection(d string) bool {
	return d == domain.DirectionLong || d == domain.DirectionShort
}

func validStatus(s string) bool {
	switch s {
	case domain.StatusOpen, domain.StatusClosed, domain.StatusPending, domain.StatusCanceled:
		return true
	}
	return false
}

// CreateTrade creates a trade under an account owned by the user.
func (s *TradeService) CreateTrade(ctx context.Context, userID, accountID uuid.UUID, input CreateTradeInput) (*domain.Trade, error) {
	if input.Instrument == "" {
		return nil, fmt.Errorf("instrument is required: %w", domain.ErrValidation)
	}
	if !validDirection(input.Direction) {
		return nil, fmt.Errorf("direction must be %q or %q: %w",
			domain.DirectionLong, domain.DirectionShort, domain.ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = domain.StatusOpen
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}

	if _, err := s.accountRepo.GetByID(ctx, userID, accountID); err != nil {
		return nil, err
	}
	if input.RiskTypeID != nil {
		if _, err := s.classificationRepo.GetRiskType(ctx, userID, *input.RiskTypeID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	trade := &domain.Trade{
		ID:              uuid.New(),
		AccountID:       accountID,
		Name:            input.Name,
		Instrument:      input.Instrument,
		Direction:       input.Direction,
		Status:          status,
		StopLossPrice:   input.StopLossPrice,
		TakeProfitPrice: input.TakeProfitPrice,
		RiskTypeID:      input.RiskTypeID,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if input.InitialEntry != nil {
		entry, err := buildEntry(trade.ID, *input.InitialEntry)
		if err != nil {
			return nil, err
		}
		trade.Entries = append(trade.Entries, entry)
	}

	for _, c := range input.Costs {
		cost, err := buildCost(trade.ID, c)
		if err != nil {
			return nil, err
		}
		trade.Costs = append(trade.Costs, cost)
	}

	if err := s.tradeRepo.Create(ctx, trade, input.StrategyTags); err != nil {
		return nil, err
	}

	s.log.Info("trade created",
		zap.String("trade_id", trade.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("instrument", trade.Instrument),
		zap.String("direction", trade.Direction),
	)

	if err := s.RefreshAccountBalance(ctx, accountID); err != nil {
		return nil, err
	}

	return s.tradeRepo.GetByID(ctx, userID, trade.ID)
}

// GetTrade retrieves one trade owned (through its account) by the user.
func (s *TradeService) GetTrade(ctx context.Context, userID, tradeID uuid.UUID) (*domain.Trade, error) {
	return s.tradeRepo.GetByID(ctx, userID, tradeID)
}

// ListTrades retrieves the trades of one account, newest first.
func (s *TradeService) ListTrades(ctx context.Context, userID, accountID uuid.UUID, filter domain.TradeFilter) ([]*domain.Trade, error) {
	if _, err := s.accountRepo.GetByID(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.tradeRepo.ListByAccount(ctx, accountID, filter)
}

// UpdateTrade applies a partial update to trade fields.
func (s *TradeService) UpdateTrade(ctx context.Context, userID, tradeID uuid.UUID, input UpdateTradeInput) (*domain.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trade.Name = *input.Name
	}
	if input.Instrument != nil {
		if *input.Instrument == "" {
			return nil, fmt.Errorf("instrument is required: %w", domain.ErrValidation)
		}
		trade.Instrument = *input.Instrument
	}
	if input.Direction != nil {
		if !validDirection(*input.Direction) {
			return nil, fmt.Errorf("direction must be %q or %q: %w",
				domain.DirectionLong, domain.DirectionShort, domain.ErrValidation)
		}
		trade.Direction = *input.Direction
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, fmt.Errorf("unknown status %q: %w", *input.Status, domain.ErrValidation)
		}
		trade.Status = *input.Status
	}
	if input.StopLossPrice != nil {
		trade.StopLossPrice = input.StopLossPrice
	}
	if input.TakeProfitPrice != nil {
		trade.TakeProfitPrice = input.TakeProfitPrice
	}
	if input.RiskTypeID != nil {
		if _, err := s.classificationRepo.GetRiskType(ctx, userID, *input.RiskTypeID); err != nil {
			return nil, err
		}
		trade.RiskTypeID = input.RiskTypeID
	}
	if input.Notes != nil {
		trade.Notes = *input.Notes
	}

	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return nil, err
	}

	if err := s.RefreshAccountBalance(ctx, trade.AccountID); err != nil {
		return nil, err
	}

	return s.tradeRepo.GetByID(ctx, userID, tradeID)
}

// DeleteTrade deletes the trade and its whole ledger.
func (s *TradeService) DeleteTrade(ctx context.Context, userID, tradeID uuid.UUID) error {
	trade, err := s.tradeRepo.GetByID(ctx, userID, tradeID)
	if err != nil {
		return err
	}

	if err := s.tradeRepo.Delete(ctx, trade.ID); err != nil {
		return err
	}

	s.log.Info("trade deleted", zap.String("trade_id", tradeID.String()))

	return s.RefreshAccountBalance(ctx, trade.AccountID)
}

// AddEntry appends a fill that opens or adds to the position.
func (s *TradeService) AddEntry(ctx context.Context, userID, tradeID uuid.UUID, input FillInput) (*domain.Entry, error) {
	if _, err := s.tradeRepo.GetByID(ctx, userID, tradeID); err != nil {
		return nil, err
	}

	entry, err := buildEntry(tradeID, input)
	if err != nil {
		return nil, err
	}

	if err := s.tradeRepo.AddEntry(ctx, entry); err != nil {
		return nil, err
	}

	trade, err := s.tradeRepo.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := s.RefreshAccountBalance(ctx, trade.AccountID); err != nil {
		return nil, err
	}

	return entry, nil
}

// AddExit appends a fill that reduces or closes the position. An exit larger
// than the open quantity is rejected with ErrCapacity and nothing is written;
// the repository re-validates the quantity inside its transaction before
// committing, so the check holds against concurrent writers too.
func (s *TradeService) AddExit(ctx context.Context, userID, tradeID uuid.UUID, input FillInput) (*domain.Exit, error) {
	trade, err := s.tradeRepo.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}

	if input.Price <= 0 {
		return nil, fmt.Errorf("exit price must be positive: %w", domain.ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("exit quantity must be positive: %w", domain.ErrValidation)
	}
	if open := trade.OpenQuantity(); input.Quantity > open {
		return nil, fmt.Errorf("cannot exit %v units, only %v open: %w",
			input.Quantity, open, domain.ErrCapacity)
	}

	filledAt := input.FilledAt
	if filledAt.IsZero() {
		filledAt = time.Now()
	}
	exit := &domain.Exit{
		ID:         uuid.New(),
		TradeID:    tradeID,
		FilledAt:   filledAt,
		Price:      input.Price,
		Quantity:   input.Quantity,
		Commission: input.Commission,
		Reason:     input.Reason,
		CreatedAt:  time.Now(),
	}

	if err := s.tradeRepo.AddExit(ctx, exit); err != nil {
		return nil, err
	}

	s.log.Info("exit admitted",
		zap.String("trade_id", tradeID.String()),
		zap.Float64("quantity", exit.Quantity),
		zap.Float64("price", exit.Price),
	)

	if err := s.RefreshAccountBalance(ctx, trade.AccountID); err != nil {
		return nil, err
	}

	return exit, nil
}

// AddCost books an ad-hoc charge against the trade.
func (s *TradeService) AddCost(ctx context.Context, userID, tradeID uuid.UUID, input CostInput) (*domain.Cost, error) {
	trade, err := s.tradeRepo.GetByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}

	cost, err := buildCost(tradeID, input)
	if err != nil {
		return nil, err
	}

	if err := s.tradeRepo.AddCost(ctx, cost); err != nil {
		return nil, err
	}

	if err := s.RefreshAccountBalance(ctx, trade.AccountID); err != nil {
		return nil, err
	}

	return cost, nil
}

// RefreshAccountBalance recomputes the cached balance as initial capital plus
// the summed net P&L of closed trades, and persists it. Invoked after every
// ledger mutation rather than lazily during reads.
func (s *TradeService) RefreshAccountBalance(ctx context.Context, accountID uuid.UUID) error {
	trades, err := s.tradeRepo.ListByAccount(ctx, accountID, domain.TradeFilter{Status: domain.StatusClosed})
	if err != nil {
		return err
	}

	var pnl float64
	for _, t := range trades {
		pnl += t.NetPnL()
	}

	account, err := s.accountRepo.GetByIDUnscoped(ctx, accountID)
	if err != nil {
		return err
	}

	return s.accountRepo.UpdateBalance(ctx, accountID, account.InitialCapital+pnl)
}

func buildEntry(tradeID uuid.UUID, input FillInput) (*domain.Entry, error) {
	if input.Price <= 0 {
		return nil, fmt.Errorf("entry price must be positive: %w", domain.ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("entry quantity must be positive: %w", domain.ErrValidation)
	}

	filledAt := input.FilledAt
	if filledAt.IsZero() {
		filledAt = time.Now()
	}

	return &domain.Entry{
		ID:         uuid.New(),
		TradeID:    tradeID,
		FilledAt:   filledAt,
		Price:      input.Price,
		Quantity:   input.Quantity,
		Commission: input.Commission,
		CreatedAt:  time.Now(),
	}, nil
}

func buildCost(tradeID uuid.UUID, input CostInput) (*domain.Cost, error) {
	if input.Type == "" {
		return nil, fmt.Errorf("cost type is required: %w", domain.ErrValidation)
	}
	if input.Amount == 0 {
		return nil, fmt.Errorf("cost amount is required: %w", domain.ErrValidation)
	}

	return &domain.Cost{
		ID:          uuid.New(),
		TradeID:     tradeID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}, nil
}
