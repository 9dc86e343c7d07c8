package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions and entity types.
const (
	AuditActionCreate  = "create"
	AuditEntityInvoice = "invoice"
)

// AuditLogEntry records an action performed by a shop member.
type AuditLogEntry struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	ShopID     uuid.UUID      `json:"shopId" db:"shop_id"`
	ActorID    uuid.UUID      `json:"actorId" db:"actor_id"`
	Action     string         `json:"action" db:"action"`
	EntityType string         `json:"entityType" db:"entity_type"`
	EntityID   uuid.UUID      `json:"entityId" db:"entity_id"`
	Metadata   map[string]any `json:"metadata" db:"metadata"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}
