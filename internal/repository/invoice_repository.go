package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// invoiceNumberConstraint is the per-shop uniqueness constraint on invoice numbers.
const invoiceNumberConstraint = "invoices_shop_id_invoice_number_key"

// invoiceRepository implements the InvoiceRepository interface using PostgreSQL.
type invoiceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL-backed invoice repository.
func NewInvoiceRepository(pool *pgxpool.Pool, logger zerolog.Logger) InvoiceRepository {
	return &invoiceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "invoice").Logger(),
	}
}

// CreateWithItems calls the create_invoice_with_items procedure, which numbers,
// prices and inserts the header and items in a single transaction.
func (r *invoiceRepository) CreateWithItems(ctx context.Context, params *model.CreateInvoiceParams) (*model.InvoiceCreated, error) {
	snapshot, err := json.Marshal(params.Snapshot)
	if err != nil {
		return nil, model.NewCreateInvoiceFailed(fmt.Errorf("encode customer snapshot: %w", err))
	}

	items, err := json.Marshal(params.Items)
	if err != nil {
		return nil, model.NewCreateInvoiceFailed(fmt.Errorf("encode invoice items: %w", err))
	}

	query := `
		SELECT invoice_id, invoice_number, grand_total
		FROM create_invoice_with_items($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
	`

	var created model.InvoiceCreated

	err = r.pool.QueryRow(ctx, query,
		params.ShopID,
		params.CustomerID,
		snapshot,
		params.InvoiceNumber,
		items,
		params.Discount,
		params.Notes,
		params.Status,
		params.CreatedBy,
	).Scan(&created.InvoiceID, &created.InvoiceNumber, &created.GrandTotal)
	if err != nil {
		if isUniqueViolation(err, invoiceNumberConstraint) {
			r.logger.Warn().
				Str("shop_id", params.ShopID.String()).
				Str("invoice_number", params.InvoiceNumber).
				Msg("duplicate invoice number")
			return nil, model.ErrDuplicateInvoiceNumber
		}

		r.logger.Error().
			Err(err).
			Str("shop_id", params.ShopID.String()).
			Int("item_count", len(params.Items)).
			Msg("failed to create invoice")
		return nil, model.NewCreateInvoiceFailed(err)
	}

	r.logger.Debug().
		Str("invoice_id", created.InvoiceID.String()).
		Str("invoice_number", created.InvoiceNumber).
		Msg("invoice created successfully")

	return &created, nil
}

// GetByID retrieves an invoice of the shop along with its items.
func (r *invoiceRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Invoice, []model.InvoiceItem, error) {
	invoiceQuery := `
		SELECT id, shop_id, customer_id, invoice_number, customer_snapshot,
		       subtotal, discount, tax_amount, grand_total,
		       status, notes, created_by, created_at
		FROM invoices
		WHERE shop_id = $1 AND id = $2
	`

	var (
		inv      model.Invoice
		snapshot []byte
	)

	err := r.pool.QueryRow(ctx, invoiceQuery, shopID, id).Scan(
		&inv.ID,
		&inv.ShopID,
		&inv.CustomerID,
		&inv.InvoiceNumber,
		&snapshot,
		&inv.Subtotal,
		&inv.Discount,
		&inv.TaxAmount,
		&inv.GrandTotal,
		&inv.Status,
		&inv.Notes,
		&inv.CreatedBy,
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("invoice_id", id.String()).Msg("invoice not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("invoice_id", id.String()).Msg("failed to query invoice")
		return nil, nil, fmt.Errorf("failed to query invoice: %w", err)
	}

	if err := json.Unmarshal(snapshot, &inv.CustomerSnapshot); err != nil {
		return nil, nil, fmt.Errorf("failed to decode customer snapshot: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return &inv, items, nil
}

func (r *invoiceRepository) getItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	itemsQuery := `
		SELECT id, invoice_id, position, description, metal_type, purity, hsn_code,
		       gross_weight, net_weight, rate_per_gram,
		       making_charges, stone_charges, quantity, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, invoiceID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("invoice_id", invoiceID.String()).
			Msg("failed to query invoice items")
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []model.InvoiceItem
	for rows.Next() {
		var item model.InvoiceItem
		err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Position, &item.Description, &item.MetalType,
			&item.Purity, &item.HSNCode, &item.GrossWeight, &item.NetWeight, &item.RatePerGram,
			&item.MakingCharges, &item.StoneCharges, &item.Quantity, &item.LineTotal,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan invoice item row")
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating invoice item rows")
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}
