package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradevine/internal/domain"
)

// TradeRepositoryImpl implements the TradeRepository interface
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

const tradeColumns = `
	id, account_id, name, instrument, direction, status, stop_loss_price,
	take_profit_price, risk_type_id, notes, created_at, updated_at
`

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	trade := &domain.Trade{}
	err := row.Scan(
		&trade.ID,
		&trade.AccountID,
		&trade.Name,
		&trade.Instrument,
		&trade.Direction,
		&trade.Status,
		&trade.StopLossPrice,
		&trade.TakeProfitPrice,
		&trade.RiskTypeID,
		&trade.Notes,
		&trade.CreatedAt,
		&trade.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// Create inserts the trade with any initial entries, costs and tag links as
// one atomic unit; a failure rolls back everything.
func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *domain.Trade, tagIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			id, account_id, name, instrument, direction, status,
			stop_loss_price, take_profit_price, risk_type_id, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err = tx.Exec(ctx, query,
		trade.ID,
		trade.AccountID,
		trade.Name,
		trade.Instrument,
		trade.Direction,
		trade.Status,
		trade.StopLossPrice,
		trade.TakeProfitPrice,
		trade.RiskTypeID,
		trade.Notes,
		trade.CreatedAt,
		trade.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	for _, entry := range trade.Entries {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	for _, cost := range trade.Costs {
		if err := insertCost(ctx, tx, cost); err != nil {
			return err
		}
	}

	for _, tagID := range tagIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO trade_strategy_tags (trade_id, strategy_tag_id) VALUES ($1, $2)`,
			trade.ID, tagID,
		)
		if err != nil {
			return fmt.Errorf("failed to link strategy tag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// GetByID retrieves one trade whose account is owned by the user
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Trade, error) {
	query := `
		SELECT t.id, t.account_id, t.name, t.instrument, t.direction, t.status,
		       t.stop_loss_price, t.take_profit_price, t.risk_type_id, t.notes,
		       t.created_at, t.updated_at
		FROM trades t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND a.user_id = $2
	`

	trade, err := scanTrade(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trade by ID: %w", err)
	}

	if err := r.loadLedgers(ctx, []*domain.Trade{trade}); err != nil {
		return nil, err
	}

	return trade, nil
}

// ListByAccount retrieves trades for an account, newest first
func (r *TradeRepositoryImpl) ListByAccount(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR instrument ILIKE '%' || $3 || '%')
		  AND ($4 = '' OR direction = $4)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, accountID, filter.Status, filter.Instrument, filter.Direction)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades, err := collectTrades(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLedgers(ctx, trades); err != nil {
		return nil, err
	}

	return trades, nil
}

// ListRecentClosed retrieves up to limit closed trades, most recently updated first
func (r *TradeRepositoryImpl) ListRecentClosed(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1 AND status = $2
		ORDER BY updated_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, accountID, domain.StatusClosed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent closed trades: %w", err)
	}
	defer rows.Close()

	trades, err := collectTrades(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLedgers(ctx, trades); err != nil {
		return nil, err
	}

	return trades, nil
}

// Update updates mutable trade fields
func (r *TradeRepositoryImpl) Update(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET name = $1, instrument = $2, direction = $3, status = $4,
		    stop_loss_price = $5, take_profit_price = $6, risk_type_id = $7,
		    notes = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := r.db.Exec(ctx, query,
		trade.Name,
		trade.Instrument,
		trade.Direction,
		trade.Status,
		trade.StopLossPrice,
		trade.TakeProfitPrice,
		trade.RiskTypeID,
		trade.Notes,
		trade.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s: %w", trade.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes the trade; entries, exits, costs and tag links cascade
func (r *TradeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AddEntry appends a fill to the entry ledger
func (r *TradeRepositoryImpl) AddEntry(ctx context.Context, entry *domain.Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := touchTrade(ctx, tx, entry.TradeID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entry: %w", err)
	}

	return nil
}

// AddExit appends a fill to the exit ledger. The trade row is locked for the
// duration of the transaction so the open-quantity check and the insert are
// atomic with respect to other writers of the same trade.
func (r *TradeRepositoryImpl) AddExit(ctx context.Context, exit *domain.Exit) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM trades WHERE id = $1 FOR UPDATE`,
		exit.TradeID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("trade %s: %w", exit.TradeID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to lock trade: %w", err)
	}

	var entered, exited float64
	err = tx.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(quantity) FROM trade_entries WHERE trade_id = $1), 0),
			COALESCE((SELECT SUM(quantity) FROM trade_exits WHERE trade_id = $1), 0)
	`, exit.TradeID).Scan(&entered, &exited)
	if err != nil {
		return fmt.Errorf("failed to sum ledger quantities: %w", err)
	}

	open := entered - exited
	if exit.Quantity > open {
		return fmt.Errorf("cannot exit %v units, only %v open: %w",
			exit.Quantity, open, domain.ErrCapacity)
	}

	query := `
		INSERT INTO trade_exits (
			id, trade_id, filled_at, price, quantity, commission, reason, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	_, err = tx.Exec(ctx, query,
		exit.ID,
		exit.TradeID,
		exit.FilledAt,
		exit.Price,
		exit.Quantity,
		exit.Commission,
		exit.Reason,
		exit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert exit: %w", err)
	}

	// Open -> Closed is the only derived transition in the trade lifecycle.
	if open-exit.Quantity <= 0 {
		_, err = tx.Exec(ctx,
			`UPDATE trades SET status = $1, updated_at = NOW() WHERE id = $2`,
			domain.StatusClosed, exit.TradeID,
		)
	} else {
		err = touchTrade(ctx, tx, exit.TradeID)
	}
	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit exit: %w", err)
	}

	return nil
}

// AddCost books a cost against the trade
func (r *TradeRepositoryImpl) AddCost(ctx context.Context, cost *domain.Cost) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertCost(ctx, tx, cost); err != nil {
		return err
	}
	if err := touchTrade(ctx, tx, cost.TradeID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cost: %w", err)
	}

	return nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry *domain.Entry) error {
	query := `
		INSERT INTO trade_entries (
			id, trade_id, filled_at, price, quantity, commission, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`
	_, err := tx.Exec(ctx, query,
		entry.ID,
		entry.TradeID,
		entry.FilledAt,
		entry.Price,
		entry.Quantity,
		entry.Commission,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func insertCost(ctx context.Context, tx pgx.Tx, cost *domain.Cost) error {
	query := `
		INSERT INTO trade_costs (
			id, trade_id, cost_type, amount, description, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`
	_, err := tx.Exec(ctx, query,
		cost.ID,
		cost.TradeID,
		cost.Type,
		cost.Amount,
		cost.Description,
		cost.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cost: %w", err)
	}
	return nil
}

func touchTrade(ctx context.Context, tx pgx.Tx, tradeID uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE trades SET updated_at = NOW() WHERE id = $1`, tradeID)
	if err != nil {
		return fmt.Errorf("failed to touch trade: %w", err)
	}
	return nil
}

func collectTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

// loadLedgers hydrates entries, exits, costs and strategy tags for the given
// trades with one query per collection.
func (r *TradeRepositoryImpl) loadLedgers(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Trade, len(trades))
	ids := make([]uuid.UUID, 0, len(trades))
	for _, t := range trades {
		t.Entries = []*domain.Entry{}
		t.Exits = []*domain.Exit{}
		t.Costs = []*domain.Cost{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, trade_id, filled_at, price, quantity, commission, created_at
		FROM trade_entries
		WHERE trade_id = ANY($1)
		ORDER BY filled_at ASC, created_at ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query entries: %w", err)
	}
	for rows.Next() {
		entry := &domain.Entry{}
		if err := rows.Scan(&entry.ID, &entry.TradeID, &entry.FilledAt,
			&entry.Price, &entry.Quantity, &entry.Commission, &entry.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan entry: %w", err)
		}
		byID[entry.TradeID].Entries = append(byID[entry.TradeID].Entries, entry)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating entries: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, trade_id, filled_at, price, quantity, commission, reason, created_at
		FROM trade_exits
		WHERE trade_id = ANY($1)
		ORDER BY filled_at ASC, created_at ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query exits: %w", err)
	}
	for rows.Next() {
		exit := &domain.Exit{}
		if err := rows.Scan(&exit.ID, &exit.TradeID, &exit.FilledAt, &exit.Price,
			&exit.Quantity, &exit.Commission, &exit.Reason, &exit.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan exit: %w", err)
		}
		byID[exit.TradeID].Exits = append(byID[exit.TradeID].Exits, exit)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating exits: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, trade_id, cost_type, amount, description, created_at
		FROM trade_costs
		WHERE trade_id = ANY($1)
		ORDER BY created_at ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query costs: %w", err)
	}
	for rows.Next() {
		cost := &domain.Cost{}
		if err := rows.Scan(&cost.ID, &cost.TradeID, &cost.Type,
			&cost.Amount, &cost.Description, &cost.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan cost: %w", err)
		}
		byID[cost.TradeID].Costs = append(byID[cost.TradeID].Costs, cost)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating costs: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT tst.trade_id, st.id, st.user_id, st.name, st.description, st.created_at
		FROM trade_strategy_tags tst
		JOIN strategy_tags st ON st.id = tst.strategy_tag_id
		WHERE tst.trade_id = ANY($1)
		ORDER BY st.name ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query strategy tags: %w", err)
	}
	for rows.Next() {
		var tradeID uuid.UUID
		tag := &domain.StrategyTag{}
		if err := rows.Scan(&tradeID, &tag.ID, &tag.UserID,
			&tag.Name, &tag.Description, &tag.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan strategy tag: %w", err)
		}
		byID[tradeID].StrategyTags = append(byID[tradeID].StrategyTags, tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating strategy tags: %w", err)
	}

	return nil
}
