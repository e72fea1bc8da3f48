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

// ClassificationRepositoryImpl implements the ClassificationRepository interface
type ClassificationRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewClassificationRepository creates a new ClassificationRepository
func NewClassificationRepository(db *pgxpool.Pool) domain.ClassificationRepository {
	return &ClassificationRepositoryImpl{db: db}
}

// CreateRiskType creates a new risk type
func (r *ClassificationRepositoryImpl) CreateRiskType(ctx context.Context, rt *domain.RiskType) error {
	query := `
		INSERT INTO risk_types (
			id, user_id, name, description, default_risk_percentage, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := r.db.Exec(ctx, query,
		rt.ID,
		rt.UserID,
		rt.Name,
		rt.Description,
		rt.DefaultRiskPercentage,
		rt.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create risk type: %w", err)
	}

	return nil
}

// ListRiskTypes retrieves all risk types owned by the user
func (r *ClassificationRepositoryImpl) ListRiskTypes(ctx context.Context, userID uuid.UUID) ([]*domain.RiskType, error) {
	query := `
		SELECT id, user_id, name, description, default_risk_percentage, created_at
		FROM risk_types
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk types: %w", err)
	}
	defer rows.Close()

	var riskTypes []*domain.RiskType
	for rows.Next() {
		rt := &domain.RiskType{}
		err := rows.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description,
			&rt.DefaultRiskPercentage, &rt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk type: %w", err)
		}
		riskTypes = append(riskTypes, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating risk types: %w", err)
	}

	return riskTypes, nil
}

// GetRiskType retrieves one risk type owned by the user
func (r *ClassificationRepositoryImpl) GetRiskType(ctx context.Context, userID, id uuid.UUID) (*domain.RiskType, error) {
	query := `
		SELECT id, user_id, name, description, default_risk_percentage, created_at
		FROM risk_types
		WHERE id = $1 AND user_id = $2
	`

	rt := &domain.RiskType{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&rt.ID, &rt.UserID, &rt.Name, &rt.Description,
		&rt.DefaultRiskPercentage, &rt.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("risk type %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get risk type: %w", err)
	}

	return rt, nil
}

// CreateStrategyTag creates a new strategy tag
func (r *ClassificationRepositoryImpl) CreateStrategyTag(ctx context.Context, tag *domain.StrategyTag) error {
	query := `
		INSERT INTO strategy_tags (
			id, user_id, name, description, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := r.db.Exec(ctx, query,
		tag.ID,
		tag.UserID,
		tag.Name,
		tag.Description,
		tag.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create strategy tag: %w", err)
	}

	return nil
}

// ListStrategyTags retrieves all strategy tags owned by the user
func (r *ClassificationRepositoryImpl) ListStrategyTags(ctx context.Context, userID uuid.UUID) ([]*domain.StrategyTag, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM strategy_tags
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.StrategyTag
	for rows.Next() {
		tag := &domain.StrategyTag{}
		err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Description, &tag.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategy tags: %w", err)
	}

	return tags, nil
}
