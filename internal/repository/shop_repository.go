package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// shopRepository implements the ShopRepository interface using PostgreSQL.
type shopRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShopRepository creates a new PostgreSQL-backed shop repository.
func NewShopRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShopRepository {
	return &shopRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shop").Logger(),
	}
}

// GetMemberRole returns the role of a user in a shop.
func (r *shopRepository) GetMemberRole(ctx context.Context, shopID, userID uuid.UUID) (string, error) {
	query := `SELECT role FROM shop_members WHERE shop_id = $1 AND user_id = $2`

	var role string
	if err := r.pool.QueryRow(ctx, query, shopID, userID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		r.logger.Error().
			Err(err).
			Str("shop_id", shopID.String()).
			Str("user_id", userID.String()).
			Msg("failed to query shop role")
		return "", fmt.Errorf("failed to query shop role: %w", err)
	}

	return role, nil
}

// GetPlan returns the subscription plan of a shop.
func (r *shopRepository) GetPlan(ctx context.Context, shopID uuid.UUID) (string, error) {
	query := `SELECT plan FROM shops WHERE id = $1`

	var plan string
	if err := r.pool.QueryRow(ctx, query, shopID).Scan(&plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		r.logger.Error().Err(err).Str("shop_id", shopID.String()).Msg("failed to query shop plan")
		return "", fmt.Errorf("failed to query shop plan: %w", err)
	}

	return plan, nil
}
