package service

import (
	"context"

	"jewelbook/internal/model"
	"jewelbook/internal/quota"
	"jewelbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type customerResolver struct {
	customers repository.CustomerRepository
	quota     quota.Checker
	logger    zerolog.Logger
}

// NewCustomerResolver creates a resolver that upserts customers by phone.
func NewCustomerResolver(customers repository.CustomerRepository, quota quota.Checker, logger zerolog.Logger) CustomerResolver {
	return &customerResolver{
		customers: customers,
		quota:     quota,
		logger:    logger.With().Str("service", "customer-resolver").Logger(),
	}
}

// Resolve picks the customer in this order: the explicit id, a phone match
// (whose profile is refreshed from the snapshot), a new customer for an
// unseen phone, or nil.
func (r *customerResolver) Resolve(ctx context.Context, shopID uuid.UUID, customerID *string, snapshot model.CustomerSnapshot) *uuid.UUID {
	log := r.logger.With().Str("shop_id", shopID.String()).Logger()

	if customerID != nil && *customerID != "" {
		id, err := uuid.Parse(*customerID)
		if err != nil {
			log.Warn().Str("customer_id", *customerID).Msg("malformed customer id, billing as walk-in")
			return nil
		}

		c, err := r.customers.GetByID(ctx, shopID, id)
		if err != nil {
			log.Error().Err(err).Str("customer_id", id.String()).Msg("customer lookup failed, billing as walk-in")
			return nil
		}
		if c == nil {
			log.Warn().Str("customer_id", id.String()).Msg("customer not in shop, billing as walk-in")
			return nil
		}
		return &c.ID
	}

	if snapshot.Phone == "" {
		return nil
	}

	existing, err := r.customers.FindByPhone(ctx, shopID, snapshot.Phone)
	if err != nil {
		log.Error().Err(err).Msg("customer phone lookup failed, billing as walk-in")
		return nil
	}

	if existing != nil {
		profile := model.CustomerProfile{
			Name:    snapshot.Name,
			Address: snapshot.Address,
			State:   snapshot.State,
			Pincode: snapshot.Pincode,
		}
		if err := r.customers.UpdateProfile(ctx, existing.ID, profile); err != nil {
			log.Error().Err(err).Str("customer_id", existing.ID.String()).Msg("failed to refresh customer profile")
		}
		return &existing.ID
	}

	usage, err := r.quota.Check(ctx, shopID, model.MetricCustomers, 1)
	if err != nil {
		log.Error().Err(err).Msg("customer quota check failed, billing as walk-in")
		return nil
	}
	if !usage.Allowed {
		log.Warn().Int("used", usage.Used).Int("limit", usage.Limit).Msg("customer limit reached, billing as walk-in")
		return nil
	}

	customer := &model.Customer{
		ShopID:  shopID,
		Name:    snapshot.Name,
		Phone:   snapshot.Phone,
		Email:   snapshot.Email,
		Address: snapshot.Address,
		State:   snapshot.State,
		Pincode: snapshot.Pincode,
	}

	if err := r.customers.Create(ctx, customer); err != nil {
		// A concurrent invoice may have created the same phone first.
		if again, findErr := r.customers.FindByPhone(ctx, shopID, snapshot.Phone); findErr == nil && again != nil {
			return &again.ID
		}
		log.Error().Err(err).Msg("failed to create customer, billing as walk-in")
		return nil
	}

	log.Info().Str("customer_id", customer.ID.String()).Msg("customer created")
	return &customer.ID
}
