package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceStatusDue       = "due"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusCancelled = "cancelled"
)

// CustomerSnapshot is the billing copy of customer details embedded in an invoice.
// It is written once at creation and never follows later customer edits.
type CustomerSnapshot struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Invoice represents a persisted invoice header.
type Invoice struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	ShopID           uuid.UUID        `json:"shopId" db:"shop_id"`
	CustomerID       *uuid.UUID       `json:"customerId" db:"customer_id"`
	InvoiceNumber    string           `json:"invoiceNumber" db:"invoice_number"`
	CustomerSnapshot CustomerSnapshot `json:"customerSnapshot" db:"customer_snapshot"`
	Subtotal         decimal.Decimal  `json:"subtotal" db:"subtotal"`
	Discount         decimal.Decimal  `json:"discount" db:"discount"`
	TaxAmount        decimal.Decimal  `json:"taxAmount" db:"tax_amount"`
	GrandTotal       decimal.Decimal  `json:"grandTotal" db:"grand_total"`
	Status           string           `json:"status" db:"status"`
	Notes            string           `json:"notes" db:"notes"`
	CreatedBy        uuid.UUID        `json:"createdBy" db:"created_by"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}

// InvoiceItem represents a priced line item of an invoice.
type InvoiceItem struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	InvoiceID     uuid.UUID       `json:"-" db:"invoice_id"`
	Position      int             `json:"position" db:"position"`
	Description   string          `json:"description" db:"description"`
	MetalType     string          `json:"metalType" db:"metal_type"`
	Purity        string          `json:"purity,omitempty" db:"purity"`
	HSNCode       string          `json:"hsnCode,omitempty" db:"hsn_code"`
	GrossWeight   decimal.Decimal `json:"grossWeight" db:"gross_weight"`
	NetWeight     decimal.Decimal `json:"netWeight" db:"net_weight"`
	RatePerGram   decimal.Decimal `json:"ratePerGram" db:"rate_per_gram"`
	MakingCharges decimal.Decimal `json:"makingCharges" db:"making_charges"`
	StoneCharges  decimal.Decimal `json:"stoneCharges" db:"stone_charges"`
	Quantity      int             `json:"quantity" db:"quantity"`
	LineTotal     decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// InvoiceRequest represents the request payload for creating an invoice.
type InvoiceRequest struct {
	ShopID                string               `json:"shopId" validate:"required,uuid"`
	CustomerID            *string              `json:"customerId,omitempty" validate:"omitempty,uuid"`
	CustomerName          string               `json:"customerName,omitempty" validate:"max=200"`
	CustomerPhone         string               `json:"customerPhone,omitempty" validate:"omitempty,phone"`
	CustomerAddress       string               `json:"customerAddress,omitempty" validate:"max=500"`
	CustomerState         string               `json:"customerState,omitempty" validate:"max=100"`
	CustomerPincode       string               `json:"customerPincode,omitempty" validate:"omitempty,numeric,min=4,max=10"`
	CustomerEmail         string               `json:"customerEmail,omitempty" validate:"omitempty,email"`
	InvoiceNumber         string               `json:"invoiceNumber,omitempty" validate:"max=50"`
	Items                 []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount              *decimal.Decimal     `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Notes                 string               `json:"notes,omitempty" validate:"max=2000"`
	Status                string               `json:"status,omitempty" validate:"oneof=due paid partial cancelled"`
	LoyaltyPointsRedeemed int                  `json:"loyaltyPointsRedeemed,omitempty" validate:"min=0"`
}

// InvoiceItemRequest represents a single item in an invoice request.
type InvoiceItemRequest struct {
	Description   string          `json:"description" validate:"required,max=200"`
	MetalType     string          `json:"metalType" validate:"required,oneof=gold silver platinum diamond other"`
	Purity        string          `json:"purity,omitempty" validate:"max=20"`
	HSNCode       string          `json:"hsnCode,omitempty" validate:"max=20"`
	GrossWeight   decimal.Decimal `json:"grossWeight" validate:"gte=0"`
	NetWeight     decimal.Decimal `json:"netWeight" validate:"gt=0"`
	RatePerGram   decimal.Decimal `json:"ratePerGram" validate:"gte=0"`
	MakingCharges decimal.Decimal `json:"makingCharges" validate:"gte=0"`
	StoneCharges  decimal.Decimal `json:"stoneCharges" validate:"gte=0"`
	Quantity      int             `json:"quantity" validate:"min=1"`
}

// Snapshot builds the embedded billing copy from the request fields.
func (r *InvoiceRequest) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		Name:    r.CustomerName,
		Phone:   r.CustomerPhone,
		Address: r.CustomerAddress,
		State:   r.CustomerState,
		Pincode: r.CustomerPincode,
		Email:   r.CustomerEmail,
	}
}

// DiscountOrZero returns the requested discount, defaulting to zero.
func (r *InvoiceRequest) DiscountOrZero() decimal.Decimal {
	if r.Discount == nil {
		return decimal.Zero
	}
	return *r.Discount
}

// CreateInvoiceParams is the input of the atomic invoice-creation procedure.
type CreateInvoiceParams struct {
	ShopID        uuid.UUID
	CustomerID    *uuid.UUID
	Snapshot      CustomerSnapshot
	InvoiceNumber string
	Items         []InvoiceItemRequest
	Discount      decimal.Decimal
	Notes         string
	Status        string
	CreatedBy     uuid.UUID
}

// InvoiceCreated is the authoritative result of the atomic invoice-creation procedure.
type InvoiceCreated struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	GrandTotal    decimal.Decimal
}

// LoyaltySummary reports what happened to loyalty points for a new invoice.
type LoyaltySummary struct {
	Outcome         string `json:"outcome"`
	Reason          string `json:"reason,omitempty"`
	PointsEarned    int    `json:"pointsEarned"`
	PointsRequested int    `json:"pointsRequested"`
	PointsRedeemed  int    `json:"pointsRedeemed"`
}

// CreateInvoiceResponse represents the response payload for a created invoice.
type CreateInvoiceResponse struct {
	InvoiceID     uuid.UUID       `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Message       string          `json:"message"`
	Loyalty       *LoyaltySummary `json:"loyalty,omitempty"`
}

// InvoiceResponse represents an invoice with its line items.
type InvoiceResponse struct {
	Invoice
	Items []InvoiceItem `json:"items"`
}
