package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loyalty earning types.
const (
	EarningTypeFlat       = "flat"
	EarningTypePercentage = "percentage"
)

// LoyaltySettings is the per-shop loyalty configuration.
type LoyaltySettings struct {
	ShopID              uuid.UUID       `json:"shopId" db:"shop_id"`
	Enabled             bool            `json:"enabled" db:"enabled"`
	EarningType         string          `json:"earningType" db:"earning_type"`
	FlatRatio           decimal.Decimal `json:"flatRatio" db:"flat_ratio"`
	PercentageBack      decimal.Decimal `json:"percentageBack" db:"percentage_back"`
	MinRedemptionPoints int             `json:"minRedemptionPoints" db:"min_redemption_points"`
}

// LoyaltyLedgerEntry is an append-only record of a loyalty balance change.
type LoyaltyLedgerEntry struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ShopID      uuid.UUID  `json:"shopId" db:"shop_id"`
	CustomerID  uuid.UUID  `json:"customerId" db:"customer_id"`
	InvoiceID   *uuid.UUID `json:"invoiceId,omitempty" db:"invoice_id"`
	PointsDelta int        `json:"pointsDelta" db:"points_delta"`
	Reason      string     `json:"reason" db:"reason"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// LoyaltySummaryResponse represents a customer's balance with recent ledger entries.
type LoyaltySummaryResponse struct {
	CustomerID uuid.UUID            `json:"customerId"`
	Name       string               `json:"name"`
	Balance    int                  `json:"balance"`
	Entries    []LoyaltyLedgerEntry `json:"entries"`
}
