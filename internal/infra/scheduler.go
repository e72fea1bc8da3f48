package infra

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tradevine/internal/domain"
	"tradevine/internal/usecase"
)

// Scheduler runs the periodic balance reconciliation. The cached balance is
// already refreshed after every ledger mutation; this job catches drift from
// refreshes that failed mid-request.
type Scheduler struct {
	cron         *cron.Cron
	accountRepo  domain.AccountRepository
	tradeService *usecase.TradeService
	log          *zap.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(accountRepo domain.AccountRepository, tradeService *usecase.TradeService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		accountRepo:  accountRepo,
		tradeService: tradeService,
		log:          log,
	}
}

// Start registers the reconciliation job under the given cron spec
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if err := s.ReconcileBalances(ctx); err != nil {
			s.log.Error("balance reconciliation failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.String("reconcile_spec", spec))
	return nil
}

// ReconcileBalances recomputes the cached balance of every account from its
// closed trades.
func (s *Scheduler) ReconcileBalances(ctx context.Context) error {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if err := s.tradeService.RefreshAccountBalance(ctx, account.ID); err != nil {
			s.log.Error("failed to reconcile account balance",
				zap.String("account_id", account.ID.String()),
				zap.Error(err),
			)
			continue
		}
	}

	s.log.Info("balance reconciliation complete", zap.Int("accounts", len(accounts)))
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}
