// Package events publishes domain events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventInvoiceCreated is emitted once an invoice is committed.
const EventInvoiceCreated = "invoice.created"

// Publisher sends an encoded event to the broker.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
	Close() error
}

// Envelope wraps every event payload.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// InvoiceCreated is the payload of EventInvoiceCreated.
type InvoiceCreated struct {
	InvoiceID     uuid.UUID       `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ShopID        uuid.UUID       `json:"shopId"`
	CustomerID    *uuid.UUID      `json:"customerId,omitempty"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	ItemCount     int             `json:"itemCount"`
	CreatedBy     uuid.UUID       `json:"createdBy"`
	LoyaltyStatus string          `json:"loyaltyStatus,omitempty"`
}

// Encode wraps data in an Envelope of the given type.
func Encode(eventType string, data any, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return json.Marshal(Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Data:       raw,
	})
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, []byte, string) error { return nil }

func (noopPublisher) Close() error { return nil }
