package repository

import (
	"context"
	"errors"
	"time"

	"jewelbook/internal/model"

	"github.com/google/uuid"
)

// Errors returned by LoyaltyRepository.ApplyDelta.
var (
	// ErrLedgerEntryExists means the invoice already has a loyalty ledger entry.
	ErrLedgerEntryExists = errors.New("loyalty ledger entry already exists for invoice")

	// ErrInsufficientPoints means the delta would take the balance below zero.
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
)

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// FindByPhone retrieves a customer of the shop by exact phone match.
	// Returns nil without error when no customer matches.
	FindByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*model.Customer, error)

	// GetByID retrieves a customer of the shop by ID.
	// Returns nil without error when the customer does not exist.
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Customer, error)

	// Create inserts a new customer with a zero loyalty balance.
	Create(ctx context.Context, customer *model.Customer) error

	// UpdateProfile overwrites the non-empty profile fields of a customer.
	UpdateProfile(ctx context.Context, id uuid.UUID, profile model.CustomerProfile) error
}

// InvoiceRepository defines the interface for invoice data access operations.
type InvoiceRepository interface {
	// CreateWithItems atomically numbers, prices and stores an invoice with its items.
	// Returns model.ErrDuplicateInvoiceNumber when the number is taken and a
	// CREATE_INVOICE_FAILED domain error for any other failure.
	CreateWithItems(ctx context.Context, params *model.CreateInvoiceParams) (*model.InvoiceCreated, error)

	// GetByID retrieves an invoice of the shop along with its items.
	// Returns nil without error when the invoice does not exist.
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Invoice, []model.InvoiceItem, error)
}

// LoyaltyRepository defines the interface for loyalty settings, balances and ledger.
type LoyaltyRepository interface {
	// GetSettings retrieves the loyalty settings of a shop.
	// Returns nil without error when the shop has never configured loyalty.
	GetSettings(ctx context.Context, shopID uuid.UUID) (*model.LoyaltySettings, error)

	// GetBalance returns the current loyalty balance of a customer.
	GetBalance(ctx context.Context, shopID, customerID uuid.UUID) (int, error)

	// ApplyDelta appends a ledger entry and moves the balance by its delta in
	// one transaction, returning the new balance. The balance never goes below
	// zero (ErrInsufficientPoints) and an invoice is credited at most once
	// (ErrLedgerEntryExists).
	ApplyDelta(ctx context.Context, entry *model.LoyaltyLedgerEntry) (int, error)

	// ListEntries returns the most recent ledger entries of a customer.
	ListEntries(ctx context.Context, shopID, customerID uuid.UUID, limit int) ([]model.LoyaltyLedgerEntry, error)
}

// ShopRepository defines the interface for shop and membership lookups.
type ShopRepository interface {
	// GetMemberRole returns the role of a user in a shop, or "" when the user
	// is not a member.
	GetMemberRole(ctx context.Context, shopID, userID uuid.UUID) (string, error)

	// GetPlan returns the subscription plan of a shop, or "" when the shop is unknown.
	GetPlan(ctx context.Context, shopID uuid.UUID) (string, error)
}

// AuditRepository defines the interface for the audit trail.
type AuditRepository interface {
	// Insert appends an audit log entry.
	Insert(ctx context.Context, entry *model.AuditLogEntry) error
}

// UsageRepository counts plan-metered resources of a shop.
type UsageRepository interface {
	// Count returns how many resources of the metric the shop created since the given time.
	Count(ctx context.Context, shopID uuid.UUID, metric string, since time.Time) (int, error)
}
