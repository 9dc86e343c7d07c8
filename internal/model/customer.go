package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a shop-scoped customer record.
type Customer struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ShopID        uuid.UUID `json:"shopId" db:"shop_id"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email,omitempty" db:"email"`
	Address       string    `json:"address,omitempty" db:"address"`
	State         string    `json:"state,omitempty" db:"state"`
	Pincode       string    `json:"pincode,omitempty" db:"pincode"`
	LoyaltyPoints int       `json:"loyaltyPoints" db:"loyalty_points"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// CustomerProfile holds the mutable profile fields synced from invoices.
type CustomerProfile struct {
	Name    string
	Address string
	State   string
	Pincode string
}
