package repository

import (
	"context"
	"errors"
	"fmt"

	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// loyaltyRepository implements the LoyaltyRepository interface using PostgreSQL.
type loyaltyRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLoyaltyRepository creates a new PostgreSQL-backed loyalty repository.
func NewLoyaltyRepository(pool *pgxpool.Pool, logger zerolog.Logger) LoyaltyRepository {
	return &loyaltyRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "loyalty").Logger(),
	}
}

// GetSettings retrieves the loyalty settings of a shop.
func (r *loyaltyRepository) GetSettings(ctx context.Context, shopID uuid.UUID) (*model.LoyaltySettings, error) {
	query := `
		SELECT shop_id, enabled, earning_type, flat_ratio, percentage_back, min_redemption_points
		FROM loyalty_settings
		WHERE shop_id = $1
	`

	var s model.LoyaltySettings

	err := r.pool.QueryRow(ctx, query, shopID).Scan(
		&s.ShopID,
		&s.Enabled,
		&s.EarningType,
		&s.FlatRatio,
		&s.PercentageBack,
		&s.MinRedemptionPoints,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shop_id", shopID.String()).Msg("failed to query loyalty settings")
		return nil, fmt.Errorf("failed to query loyalty settings: %w", err)
	}

	return &s, nil
}

// GetBalance returns the current loyalty balance of a customer.
func (r *loyaltyRepository) GetBalance(ctx context.Context, shopID, customerID uuid.UUID) (int, error) {
	query := `SELECT loyalty_points FROM customers WHERE shop_id = $1 AND id = $2`

	var balance int
	if err := r.pool.QueryRow(ctx, query, shopID, customerID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrCustomerNotFound
		}
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query loyalty balance")
		return 0, fmt.Errorf("failed to query loyalty balance: %w", err)
	}

	return balance, nil
}

// ApplyDelta appends a ledger entry and moves the balance in one transaction.
// The ledger insert goes first so a second call for the same invoice stops
// before touching the balance.
func (r *loyaltyRepository) ApplyDelta(ctx context.Context, entry *model.LoyaltyLedgerEntry) (int, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var balance int

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO loyalty_ledger (id, shop_id, customer_id, invoice_id, points_delta, reason)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (invoice_id) DO NOTHING
			RETURNING created_at
		`

		err := tx.QueryRow(ctx, insertQuery,
			entry.ID,
			entry.ShopID,
			entry.CustomerID,
			entry.InvoiceID,
			entry.PointsDelta,
			entry.Reason,
		).Scan(&entry.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrLedgerEntryExists
			}
			return fmt.Errorf("failed to insert loyalty ledger entry: %w", err)
		}

		updateQuery := `
			UPDATE customers
			SET loyalty_points = loyalty_points + $3, updated_at = NOW()
			WHERE shop_id = $1 AND id = $2 AND loyalty_points + $3 >= 0
			RETURNING loyalty_points
		`

		err = tx.QueryRow(ctx, updateQuery, entry.ShopID, entry.CustomerID, entry.PointsDelta).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInsufficientPoints
			}
			return fmt.Errorf("failed to update loyalty balance: %w", err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrLedgerEntryExists) && !errors.Is(err, ErrInsufficientPoints) {
			r.logger.Error().
				Err(err).
				Str("customer_id", entry.CustomerID.String()).
				Int("points_delta", entry.PointsDelta).
				Msg("failed to apply loyalty delta")
		}
		return 0, err
	}

	r.logger.Debug().
		Str("customer_id", entry.CustomerID.String()).
		Int("points_delta", entry.PointsDelta).
		Int("balance", balance).
		Msg("loyalty delta applied")

	return balance, nil
}

// ListEntries returns the most recent ledger entries of a customer.
func (r *loyaltyRepository) ListEntries(ctx context.Context, shopID, customerID uuid.UUID, limit int) ([]model.LoyaltyLedgerEntry, error) {
	query := `
		SELECT id, shop_id, customer_id, invoice_id, points_delta, reason, created_at
		FROM loyalty_ledger
		WHERE shop_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, shopID, customerID, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query loyalty ledger")
		return nil, fmt.Errorf("failed to query loyalty ledger: %w", err)
	}
	defer rows.Close()

	entries := make([]model.LoyaltyLedgerEntry, 0)
	for rows.Next() {
		var e model.LoyaltyLedgerEntry
		if err := rows.Scan(&e.ID, &e.ShopID, &e.CustomerID, &e.InvoiceID, &e.PointsDelta, &e.Reason, &e.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan loyalty ledger row")
			return nil, fmt.Errorf("failed to scan loyalty ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loyalty ledger: %w", err)
	}

	return entries, nil
}
