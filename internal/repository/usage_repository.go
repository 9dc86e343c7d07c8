package repository

import (
	"context"
	"fmt"
	"time"

	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// usageRepository implements the UsageRepository interface using PostgreSQL.
type usageRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUsageRepository creates a new PostgreSQL-backed usage repository.
func NewUsageRepository(pool *pgxpool.Pool, logger zerolog.Logger) UsageRepository {
	return &usageRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "usage").Logger(),
	}
}

// Count returns how many resources of the metric the shop created since the given time.
func (r *usageRepository) Count(ctx context.Context, shopID uuid.UUID, metric string, since time.Time) (int, error) {
	var query string
	switch metric {
	case model.MetricInvoices:
		query = `SELECT COUNT(*) FROM invoices WHERE shop_id = $1 AND created_at >= $2`
	case model.MetricCustomers:
		query = `SELECT COUNT(*) FROM customers WHERE shop_id = $1 AND created_at >= $2`
	default:
		return 0, fmt.Errorf("unknown usage metric: %s", metric)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, shopID, since).Scan(&count); err != nil {
		r.logger.Error().
			Err(err).
			Str("shop_id", shopID.String()).
			Str("metric", metric).
			Msg("failed to count usage")
		return 0, fmt.Errorf("failed to count %s usage: %w", metric, err)
	}

	return count, nil
}
