package service

import (
	"context"
	"fmt"

	"jewelbook/internal/model"
	"jewelbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// invoiceWriters may create invoices.
var invoiceWriters = map[string]bool{
	model.RoleOwner:   true,
	model.RoleManager: true,
	model.RoleStaff:   true,
}

// roleGate checks shop membership before any write.
type roleGate struct {
	shops  repository.ShopRepository
	logger zerolog.Logger
}

func newRoleGate(shops repository.ShopRepository, logger zerolog.Logger) *roleGate {
	return &roleGate{shops: shops, logger: logger}
}

// requireRole returns the member's role when it is one of allowed. A missing
// membership and a disallowed role produce the same error.
func (g *roleGate) requireRole(ctx context.Context, shopID, userID uuid.UUID, allowed map[string]bool) (string, error) {
	role, err := g.shops.GetMemberRole(ctx, shopID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check shop role: %w", err)
	}

	if role == "" || (allowed != nil && !allowed[role]) {
		g.logger.Warn().
			Str("shop_id", shopID.String()).
			Str("user_id", userID.String()).
			Str("role", role).
			Msg("permission denied")
		return "", model.ErrInsufficientPermissions
	}

	return role, nil
}

// requireMember accepts any role, viewers included.
func (g *roleGate) requireMember(ctx context.Context, shopID, userID uuid.UUID) error {
	_, err := g.requireRole(ctx, shopID, userID, nil)
	return err
}
