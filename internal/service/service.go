package service

import (
	"context"

	"jewelbook/internal/model"

	"github.com/google/uuid"
)

// InvoiceService defines operations for invoice management.
type InvoiceService interface {
	// CreateInvoice validates, gates, persists and settles a new invoice on
	// behalf of actorID.
	CreateInvoice(ctx context.Context, actorID uuid.UUID, req *model.InvoiceRequest) (*model.CreateInvoiceResponse, error)

	// GetByID retrieves an invoice with its items. The actor must belong to the shop.
	GetByID(ctx context.Context, actorID, shopID, invoiceID uuid.UUID) (*model.InvoiceResponse, error)
}

// LoyaltyService defines read operations over customer loyalty balances.
type LoyaltyService interface {
	// Summary returns a customer's balance and latest ledger entries.
	Summary(ctx context.Context, actorID, shopID, customerID uuid.UUID) (*model.LoyaltySummaryResponse, error)
}

// CustomerResolver links an invoice to a customer record.
type CustomerResolver interface {
	// Resolve returns the customer to attach, or nil for a walk-in invoice.
	// It never fails the invoice: lookup errors degrade to nil.
	Resolve(ctx context.Context, shopID uuid.UUID, customerID *string, snapshot model.CustomerSnapshot) *uuid.UUID
}

// AuditLogger records who did what.
type AuditLogger interface {
	// LogCreate appends a creation record. Failures are logged, not returned.
	LogCreate(ctx context.Context, entry *model.AuditLogEntry)
}
