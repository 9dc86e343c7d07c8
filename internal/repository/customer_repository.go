package repository

import (
	"context"
	"errors"
	"fmt"

	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const customerColumns = `id, shop_id, name, COALESCE(phone, ''), email, address, state, pincode, loyalty_points, created_at, updated_at`

// customerRepository implements the CustomerRepository interface using PostgreSQL.
type customerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

// FindByPhone retrieves a customer of the shop by exact phone match.
func (r *customerRepository) FindByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE shop_id = $1 AND phone = $2`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, shopID, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("shop_id", shopID.String()).Msg("customer not found by phone")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("shop_id", shopID.String()).Msg("failed to query customer by phone")
		return nil, fmt.Errorf("failed to query customer by phone: %w", err)
	}

	return c, nil
}

// GetByID retrieves a customer of the shop by ID.
func (r *customerRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE shop_id = $1 AND id = $2`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, shopID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return c, nil
}

// Create inserts a new customer with a zero loyalty balance.
func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.LoyaltyPoints = 0

	query := `
		INSERT INTO customers (id, shop_id, name, phone, email, address, state, pincode, loyalty_points)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, 0)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		customer.ID,
		customer.ShopID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.State,
		customer.Pincode,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("shop_id", customer.ShopID.String()).
			Msg("failed to create customer")
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create customer: shop %s does not exist: %w", customer.ShopID, err)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	r.logger.Debug().
		Str("customer_id", customer.ID.String()).
		Msg("customer created successfully")

	return nil
}

// UpdateProfile overwrites the non-empty profile fields of a customer.
func (r *customerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.CustomerProfile) error {
	query := `
		UPDATE customers
		SET name = COALESCE(NULLIF($2, ''), name),
		    address = COALESCE(NULLIF($3, ''), address),
		    state = COALESCE(NULLIF($4, ''), state),
		    pincode = COALESCE(NULLIF($5, ''), pincode),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, profile.Name, profile.Address, profile.State, profile.Pincode)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to update customer")
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}

	return nil
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID,
		&c.ShopID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Address,
		&c.State,
		&c.Pincode,
		&c.LoyaltyPoints,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
