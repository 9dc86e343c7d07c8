package service

import (
	"context"
	"fmt"
	"time"

	"jewelbook/internal/cache"
	"jewelbook/internal/events"
	"jewelbook/internal/loyalty"
	"jewelbook/internal/model"
	"jewelbook/internal/quota"
	"jewelbook/internal/repository"
	"jewelbook/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceDeps groups the collaborators of the invoice service.
type InvoiceDeps struct {
	Invoices  repository.InvoiceRepository
	Shops     repository.ShopRepository
	Validator *validation.Validator
	Quota     quota.Checker
	Customers CustomerResolver
	Loyalty   loyalty.Adjuster
	Audit     AuditLogger
	Cache     cache.Invalidator
	Events    events.Publisher
}

// invoiceService implements InvoiceService.
// eventPublishTimeout bounds the post-commit event write so a slow broker
// cannot hold the response.
const eventPublishTimeout = 5 * time.Second

type invoiceService struct {
	InvoiceDeps
	gate           *roleGate
	publishTimeout time.Duration
	logger         zerolog.Logger
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(deps InvoiceDeps, logger zerolog.Logger) InvoiceService {
	logger = logger.With().Str("service", "invoice").Logger()

	return &invoiceService{
		InvoiceDeps:    deps,
		gate:           newRoleGate(deps.Shops, logger),
		publishTimeout: eventPublishTimeout,
		logger:         logger,
	}
}

// CreateInvoice runs validation, the quota and role gates, customer
// resolution and the atomic insert. Loyalty, audit, cache and event steps
// follow the commit and never fail the request.
func (s *invoiceService) CreateInvoice(ctx context.Context, actorID uuid.UUID, req *model.InvoiceRequest) (*model.CreateInvoiceResponse, error) {
	if err := s.Validator.ValidateInvoiceRequest(req); err != nil {
		return nil, err
	}

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shop id: %w", err)
	}

	log := s.logger.With().
		Str("shop_id", shopID.String()).
		Str("actor_id", actorID.String()).
		Logger()

	usage, err := s.Quota.Check(ctx, shopID, model.MetricInvoices, 1)
	if err != nil {
		log.Error().Err(err).Msg("invoice quota check failed")
		return nil, fmt.Errorf("failed to check invoice quota: %w", err)
	}
	if !usage.Allowed {
		return nil, &model.QuotaExceededError{
			Metric: model.MetricInvoices,
			Used:   usage.Used,
			Limit:  usage.Limit,
		}
	}

	role, err := s.gate.requireRole(ctx, shopID, actorID, invoiceWriters)
	if err != nil {
		return nil, err
	}

	snapshot := req.Snapshot()
	customerID := s.Customers.Resolve(ctx, shopID, req.CustomerID, snapshot)

	created, err := s.Invoices.CreateWithItems(ctx, &model.CreateInvoiceParams{
		ShopID:        shopID,
		CustomerID:    customerID,
		Snapshot:      snapshot,
		InvoiceNumber: req.InvoiceNumber,
		Items:         req.Items,
		Discount:      req.DiscountOrZero(),
		Notes:         req.Notes,
		Status:        req.Status,
		CreatedBy:     actorID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("invoice not created")
		return nil, err
	}

	log = log.With().
		Str("invoice_id", created.InvoiceID.String()).
		Str("invoice_number", created.InvoiceNumber).
		Logger()

	// The invoice is committed; nothing below may undo it.
	after := context.WithoutCancel(ctx)

	summary := s.settleLoyalty(after, log, shopID, customerID, created, req.LoyaltyPointsRedeemed)

	s.Audit.LogCreate(after, &model.AuditLogEntry{
		ShopID:     shopID,
		ActorID:    actorID,
		EntityType: model.AuditEntityInvoice,
		EntityID:   created.InvoiceID,
		Metadata: map[string]any{
			"invoiceNumber": created.InvoiceNumber,
			"customerName":  snapshot.Name,
			"grandTotal":    created.GrandTotal.StringFixed(2),
			"itemCount":     len(req.Items),
			"role":          role,
		},
	})

	s.Cache.Invalidate(after, cache.ShopViews(shopID.String())...)

	s.publishCreated(after, log, shopID, actorID, customerID, created, len(req.Items), summary)

	log.Info().
		Str("grand_total", created.GrandTotal.StringFixed(2)).
		Int("item_count", len(req.Items)).
		Msg("invoice created successfully")

	return &model.CreateInvoiceResponse{
		InvoiceID:     created.InvoiceID,
		InvoiceNumber: created.InvoiceNumber,
		GrandTotal:    created.GrandTotal,
		Message:       "Invoice created successfully",
		Loyalty:       summary,
	}, nil
}

// settleLoyalty runs the adjuster for invoices with a customer. Failures are
// logged and reported as skipped.
func (s *invoiceService) settleLoyalty(
	ctx context.Context,
	log zerolog.Logger,
	shopID uuid.UUID,
	customerID *uuid.UUID,
	created *model.InvoiceCreated,
	requested int,
) *model.LoyaltySummary {
	if customerID == nil {
		if requested > 0 {
			return &model.LoyaltySummary{
				Outcome:         string(loyalty.KindSkipped),
				Reason:          "invoice has no customer",
				PointsRequested: requested,
			}
		}
		return nil
	}

	out, err := s.Loyalty.Adjust(ctx, loyalty.AdjustParams{
		ShopID:          shopID,
		CustomerID:      *customerID,
		InvoiceID:       created.InvoiceID,
		InvoiceNumber:   created.InvoiceNumber,
		GrandTotal:      created.GrandTotal,
		PointsRequested: requested,
	})
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID.String()).Msg("loyalty adjustment failed")
		return &model.LoyaltySummary{
			Outcome:         string(loyalty.KindSkipped),
			Reason:          "loyalty points could not be settled",
			PointsEarned:    out.PointsEarned,
			PointsRequested: out.PointsRequested,
		}
	}

	return out.Summary()
}

func (s *invoiceService) publishCreated(
	ctx context.Context,
	log zerolog.Logger,
	shopID, actorID uuid.UUID,
	customerID *uuid.UUID,
	created *model.InvoiceCreated,
	itemCount int,
	summary *model.LoyaltySummary,
) {
	event := events.InvoiceCreated{
		InvoiceID:     created.InvoiceID,
		InvoiceNumber: created.InvoiceNumber,
		ShopID:        shopID,
		CustomerID:    customerID,
		GrandTotal:    created.GrandTotal,
		ItemCount:     itemCount,
		CreatedBy:     actorID,
	}
	if summary != nil {
		event.LoyaltyStatus = summary.Outcome
	}

	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	payload, err := events.Encode(events.EventInvoiceCreated, event, time.Now())
	if err == nil {
		err = s.Events.Publish(ctx, events.EventInvoiceCreated, payload, shopID.String())
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to publish invoice event")
	}
}

// GetByID retrieves an invoice with its items.
func (s *invoiceService) GetByID(ctx context.Context, actorID, shopID, invoiceID uuid.UUID) (*model.InvoiceResponse, error) {
	if err := s.gate.requireMember(ctx, shopID, actorID); err != nil {
		return nil, err
	}

	invoice, items, err := s.Invoices.GetByID(ctx, shopID, invoiceID)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to get invoice")
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice == nil {
		return nil, model.ErrInvoiceNotFound
	}

	return &model.InvoiceResponse{Invoice: *invoice, Items: items}, nil
}
