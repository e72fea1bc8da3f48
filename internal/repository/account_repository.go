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

// AccountRepositoryImpl implements the AccountRepository interface
type AccountRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

const accountColumns = `
	id, user_id, name, broker, base_currency, initial_capital, current_balance,
	profit_target, max_drawdown, trading_model, created_at, updated_at
`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Broker,
		&account.BaseCurrency,
		&account.InitialCapital,
		&account.CurrentBalance,
		&account.ProfitTarget,
		&account.MaxDrawdown,
		&account.TradingModel,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Create creates a new account
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			id, user_id, name, broker, base_currency, initial_capital,
			current_balance, profit_target, max_drawdown, trading_model,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Name,
		account.Broker,
		account.BaseCurrency,
		account.InitialCapital,
		account.CurrentBalance,
		account.ProfitTarget,
		account.MaxDrawdown,
		account.TradingModel,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves one account owned by the user
func (r *AccountRepositoryImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// GetByIDUnscoped retrieves an account without user scoping
func (r *AccountRepositoryImpl) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// GetAll retrieves every account, oldest first
func (r *AccountRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// GetByUserID retrieves all accounts owned by the user, oldest first
func (r *AccountRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Update updates mutable account fields
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, broker = $2, base_currency = $3, profit_target = $4,
		    max_drawdown = $5, trading_model = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`

	tag, err := r.db.Exec(ctx, query,
		account.Name,
		account.Broker,
		account.BaseCurrency,
		account.ProfitTarget,
		account.MaxDrawdown,
		account.TradingModel,
		account.ID,
		account.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes the account; trades and their ledgers go with it via cascade
func (r *AccountRepositoryImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateBalance persists a recomputed cached balance
func (r *AccountRepositoryImpl) UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error {
	query := `
		UPDATE accounts
		SET current_balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	return nil
}
