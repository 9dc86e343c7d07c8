// Package quota enforces subscription plan limits before resources are created.
package quota

import (
	"context"
	"fmt"
	"time"

	"jewelbook/internal/model"
	"jewelbook/internal/plan"
	"jewelbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Unlimited is reported as the limit of metrics the plan does not cap.
const Unlimited = -1

// Checker defines the plan usage check.
type Checker interface {
	// Check reports whether the shop may create delta more resources of metric.
	Check(ctx context.Context, shopID uuid.UUID, metric string, delta int) (model.Usage, error)
}

type checker struct {
	shops     repository.ShopRepository
	usage     repository.UsageRepository
	catalogue *plan.Catalogue
	now       func() time.Time
	logger    zerolog.Logger
}

// NewChecker creates a usage checker over the given plan catalogue.
func NewChecker(
	shops repository.ShopRepository,
	usage repository.UsageRepository,
	catalogue *plan.Catalogue,
	logger zerolog.Logger,
) Checker {
	return &checker{
		shops:     shops,
		usage:     usage,
		catalogue: catalogue,
		now:       time.Now,
		logger:    logger.With().Str("component", "quota").Logger(),
	}
}

func (c *checker) Check(ctx context.Context, shopID uuid.UUID, metric string, delta int) (model.Usage, error) {
	planName, err := c.shops.GetPlan(ctx, shopID)
	if err != nil {
		return model.Usage{}, fmt.Errorf("failed to read shop plan: %w", err)
	}

	limit, unlimited := c.catalogue.Limit(planName, metric)
	if unlimited {
		return model.Usage{Allowed: true, Limit: Unlimited}, nil
	}

	used, err := c.usage.Count(ctx, shopID, metric, periodStart(metric, c.now()))
	if err != nil {
		return model.Usage{}, fmt.Errorf("failed to read %s usage: %w", metric, err)
	}

	usage := model.Usage{
		Allowed: used+delta <= limit,
		Limit:   limit,
		Used:    used,
	}

	if !usage.Allowed {
		c.logger.Info().
			Str("shop_id", shopID.String()).
			Str("plan", planName).
			Str("metric", metric).
			Int("used", used).
			Int("limit", limit).
			Msg("plan limit reached")
	}

	return usage, nil
}

// periodStart returns when the counting window of metric began. Invoices are
// metered per calendar month (UTC); other metrics count everything.
func periodStart(metric string, now time.Time) time.Time {
	if metric == model.MetricInvoices {
		now = now.UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
