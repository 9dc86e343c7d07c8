package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// auditRepository implements the AuditRepository interface using PostgreSQL.
type auditRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAuditRepository creates a new PostgreSQL-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool, logger zerolog.Logger) AuditRepository {
	return &auditRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "audit").Logger(),
	}
}

// Insert appends an audit log entry.
func (r *auditRepository) Insert(ctx context.Context, entry *model.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, shop_id, actor_id, action, entity_type, entity_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.ShopID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		metadata,
	).Scan(&entry.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID.String()).
			Msg("failed to insert audit log")
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
