package service

import (
	"context"

	"jewelbook/internal/model"
	"jewelbook/internal/repository"

	"github.com/rs/zerolog"
)

type auditLogger struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditLogger creates an AuditLogger that writes to the audit trail.
func NewAuditLogger(repo repository.AuditRepository, logger zerolog.Logger) AuditLogger {
	return &auditLogger{
		repo:   repo,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

func (a *auditLogger) LogCreate(ctx context.Context, entry *model.AuditLogEntry) {
	entry.Action = model.AuditActionCreate

	if err := a.repo.Insert(ctx, entry); err != nil {
		a.logger.Error().
			Err(err).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID.String()).
			Msg("failed to write audit log")
	}
}
