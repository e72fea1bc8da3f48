package domain

import (
	"context"

	"github.com/google/uuid"
)

// TradeFilter narrows trade listings. Zero values mean no filtering.
type TradeFilter struct {
	Status     string
	Instrument string // substring match, case-insensitive
	Direction  string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// AccountRepository defines the interface for account data operations.
// All lookups are scoped to the owning user; a mismatch reports ErrNotFound.
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves one account owned by the user
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Account, error)

	// GetByUserID retrieves all accounts owned by the user, oldest first
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// GetByIDUnscoped retrieves an account without user scoping. For use by
	// internal balance-refresh paths only, never by request handlers.
	GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetAll retrieves every account. Used by the reconciliation job.
	GetAll(ctx context.Context) ([]*Account, error)

	// Update updates mutable account fields
	Update(ctx context.Context, account *Account) error

	// Delete deletes the account and, via cascade, all of its trades
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// UpdateBalance persists a recomputed cached balance
	UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error
}

// TradeRepository defines the interface for trade ledger operations.
// Trades are returned with entries, exits, costs and strategy tags loaded.
type TradeRepository interface {
	// Create inserts the trade together with any initial entries, costs and
	// tag links as one atomic unit
	Create(ctx context.Context, trade *Trade, tagIDs []uuid.UUID) error

	// GetByID retrieves one trade whose account is owned by the user
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Trade, error)

	// ListByAccount retrieves trades for an account, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter TradeFilter) ([]*Trade, error)

	// ListRecentClosed retrieves up to limit closed trades for an account,
	// most recently updated first
	ListRecentClosed(ctx context.Context, accountID uuid.UUID, limit int) ([]*Trade, error)

	// Update updates mutable trade fields
	Update(ctx context.Context, trade *Trade) error

	// Delete deletes the trade and, via cascade, its ledger
	Delete(ctx context.Context, id uuid.UUID) error

	// AddEntry appends a fill to the trade's entry ledger
	AddEntry(ctx context.Context, entry *Entry) error

	// AddExit appends a fill to the exit ledger. The open-quantity check and
	// the insert run in one transaction holding a lock on the trade row; a
	// quantity above the open quantity reports ErrCapacity with no mutation,
	// and a fill that empties the position transitions the trade to Closed.
	AddExit(ctx context.Context, exit *Exit) error

	// AddCost books a cost against the trade
	AddCost(ctx context.Context, cost *Cost) error
}

// ClassificationRepository defines the interface for user-scoped risk type
// and strategy tag labels.
type ClassificationRepository interface {
	// CreateRiskType creates a new risk type
	CreateRiskType(ctx context.Context, rt *RiskType) error

	// ListRiskTypes retrieves all risk types owned by the user
	ListRiskTypes(ctx context.Context, userID uuid.UUID) ([]*RiskType, error)

	// GetRiskType retrieves one risk type owned by the user
	GetRiskType(ctx context.Context, userID, id uuid.UUID) (*RiskType, error)

	// CreateStrategyTag creates a new strategy tag
	CreateStrategyTag(ctx context.Context, tag *StrategyTag) error

	// ListStrategyTags retrieves all strategy tags owned by the user
	ListStrategyTags(ctx context.Context, userID uuid.UUID) ([]*StrategyTag, error)
}
