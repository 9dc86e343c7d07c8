package service

import (
	"context"
	"fmt"

	"jewelbook/internal/model"
	"jewelbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// summaryEntryLimit caps the ledger entries returned with a balance.
const summaryEntryLimit = 20

type loyaltyService struct {
	customers repository.CustomerRepository
	loyalty   repository.LoyaltyRepository
	gate      *roleGate
	logger    zerolog.Logger
}

// NewLoyaltyService creates a new loyalty read service.
func NewLoyaltyService(
	customers repository.CustomerRepository,
	loyalty repository.LoyaltyRepository,
	shops repository.ShopRepository,
	logger zerolog.Logger,
) LoyaltyService {
	logger = logger.With().Str("service", "loyalty").Logger()

	return &loyaltyService{
		customers: customers,
		loyalty:   loyalty,
		gate:      newRoleGate(shops, logger),
		logger:    logger,
	}
}

func (s *loyaltyService) Summary(ctx context.Context, actorID, shopID, customerID uuid.UUID) (*model.LoyaltySummaryResponse, error) {
	if err := s.gate.requireMember(ctx, shopID, actorID); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, shopID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrCustomerNotFound
	}

	entries, err := s.loyalty.ListEntries(ctx, shopID, customerID, summaryEntryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty entries: %w", err)
	}

	return &model.LoyaltySummaryResponse{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Balance:    customer.LoyaltyPoints,
		Entries:    entries,
	}, nil
}
