package loyalty

import (
	"context"
	"errors"
	"fmt"

	"jewelbook/internal/model"
	"jewelbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Kind tags which branch of the adjustment fired.
type Kind string

const (
	// KindApplied means the earned and requested points were written as asked.
	KindApplied Kind = "applied"
	// KindCorrected means a policy fallback dropped the redemption and only
	// earned points were written.
	KindCorrected Kind = "corrected"
	// KindSkipped means nothing was written.
	KindSkipped Kind = "skipped"
)

// Outcome describes what an adjustment did.
type Outcome struct {
	Kind            Kind
	Reason          string
	PointsEarned    int
	PointsRequested int
	PointsRedeemed  int
	Balance         int
}

// Summary converts the outcome into its response form.
func (o Outcome) Summary() *model.LoyaltySummary {
	return &model.LoyaltySummary{
		Outcome:         string(o.Kind),
		Reason:          o.Reason,
		PointsEarned:    o.PointsEarned,
		PointsRequested: o.PointsRequested,
		PointsRedeemed:  o.PointsRedeemed,
	}
}

// AdjustParams identifies the invoice whose points are being settled.
type AdjustParams struct {
	ShopID          uuid.UUID
	CustomerID      uuid.UUID
	InvoiceID       uuid.UUID
	InvoiceNumber   string
	GrandTotal      decimal.Decimal
	PointsRequested int
}

// Adjuster settles loyalty points for a committed invoice.
type Adjuster interface {
	// Adjust runs at most once per invoice. Policy violations never fail it;
	// they surface as a corrected or skipped outcome. Storage errors are
	// returned.
	Adjust(ctx context.Context, params AdjustParams) (Outcome, error)
}

type adjuster struct {
	repo   repository.LoyaltyRepository
	logger zerolog.Logger
}

// NewAdjuster creates a loyalty adjuster backed by repo.
func NewAdjuster(repo repository.LoyaltyRepository, logger zerolog.Logger) Adjuster {
	return &adjuster{
		repo:   repo,
		logger: logger.With().Str("component", "loyalty-adjuster").Logger(),
	}
}

func (a *adjuster) Adjust(ctx context.Context, p AdjustParams) (Outcome, error) {
	requested := p.PointsRequested
	if requested < 0 {
		requested = 0
	}

	out := Outcome{Kind: KindSkipped, PointsRequested: requested}

	log := a.logger.With().
		Str("shop_id", p.ShopID.String()).
		Str("customer_id", p.CustomerID.String()).
		Str("invoice_id", p.InvoiceID.String()).
		Logger()

	settings, err := a.repo.GetSettings(ctx, p.ShopID)
	if err != nil {
		return out, fmt.Errorf("failed to load loyalty settings: %w", err)
	}

	if settings == nil || !settings.Enabled {
		out.Reason = "loyalty programme disabled"
		return out, nil
	}

	out.PointsEarned = CalculatePointsEarned(settings, p.GrandTotal)
	redeem := requested
	var corrections []string

	if redeem > 0 && settings.MinRedemptionPoints > 0 && redeem < settings.MinRedemptionPoints {
		log.Warn().
			Int("points_requested", redeem).
			Int("min_redemption_points", settings.MinRedemptionPoints).
			Msg("redemption below shop minimum dropped")
		corrections = append(corrections,
			fmt.Sprintf("redemption of %d below minimum %d dropped", redeem, settings.MinRedemptionPoints))
		redeem = 0
	}

	if out.PointsEarned-redeem == 0 {
		out.Reason = "no net change"
		if len(corrections) > 0 {
			out.Reason = corrections[0]
		}
		return out, nil
	}

	balance, err := a.repo.GetBalance(ctx, p.ShopID, p.CustomerID)
	if err != nil {
		return out, fmt.Errorf("failed to read loyalty balance: %w", err)
	}

	if redeem > balance {
		log.Error().
			Int("points_requested", redeem).
			Int("balance", balance).
			Msg("redemption exceeds balance, applying earned points only")
		corrections = append(corrections,
			fmt.Sprintf("redemption of %d exceeds balance %d, discarded", redeem, balance))
		redeem = 0
	}

	newBalance, err := a.apply(ctx, p, out.PointsEarned, redeem, corrections)
	if errors.Is(err, repository.ErrInsufficientPoints) && redeem > 0 {
		// Balance moved between the read and the write.
		log.Error().
			Int("points_requested", redeem).
			Msg("balance changed concurrently, applying earned points only")
		corrections = append(corrections, fmt.Sprintf("redemption of %d exceeds balance, discarded", redeem))
		redeem = 0
		newBalance, err = a.apply(ctx, p, out.PointsEarned, redeem, corrections)
	}

	switch {
	case errors.Is(err, repository.ErrLedgerEntryExists):
		log.Warn().Msg("loyalty already settled for invoice")
		out.Reason = "already settled for this invoice"
		return out, nil
	case err != nil:
		return out, fmt.Errorf("failed to apply loyalty points: %w", err)
	}

	out.PointsRedeemed = redeem
	out.Balance = newBalance
	out.Reason = reason(p.InvoiceNumber, out.PointsEarned, redeem, corrections)
	if len(corrections) > 0 {
		out.Kind = KindCorrected
	} else {
		out.Kind = KindApplied
	}

	log.Info().
		Str("outcome", string(out.Kind)).
		Int("points_earned", out.PointsEarned).
		Int("points_redeemed", redeem).
		Int("balance", newBalance).
		Msg("loyalty points settled")

	return out, nil
}

func (a *adjuster) apply(ctx context.Context, p AdjustParams, earned, redeemed int, corrections []string) (int, error) {
	invoiceID := p.InvoiceID
	return a.repo.ApplyDelta(ctx, &model.LoyaltyLedgerEntry{
		ShopID:      p.ShopID,
		CustomerID:  p.CustomerID,
		InvoiceID:   &invoiceID,
		PointsDelta: earned - redeemed,
		Reason:      reason(p.InvoiceNumber, earned, redeemed, corrections),
	})
}

// reason renders the ledger text, e.g.
// "Invoice INV-00012: earned 9, redeemed 0 (corrected: redemption of 150 exceeds balance 100, discarded)".
func reason(invoiceNumber string, earned, redeemed int, corrections []string) string {
	s := fmt.Sprintf("Invoice %s: earned %d, redeemed %d", invoiceNumber, earned, redeemed)
	for i, c := range corrections {
		if i == 0 {
			s += " (corrected: " + c
		} else {
			s += "; " + c
		}
	}
	if len(corrections) > 0 {
		s += ")"
	}
	return s
}
