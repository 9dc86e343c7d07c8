package service

import (
	"context"

	"jewelbook/internal/loyalty"
	"jewelbook/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateWithItems(ctx context.Context, params *model.CreateInvoiceParams) (*model.InvoiceCreated, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InvoiceCreated), args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Invoice, []model.InvoiceItem, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Invoice), args.Get(1).([]model.InvoiceItem), args.Error(2)
}

// MockShopRepository is a mock implementation of ShopRepository.
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetMemberRole(ctx context.Context, shopID, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, shopID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockShopRepository) GetPlan(ctx context.Context, shopID uuid.UUID) (string, error) {
	args := m.Called(ctx, shopID)
	return args.String(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*model.Customer, error) {
	args := m.Called(ctx, shopID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile model.CustomerProfile) error {
	args := m.Called(ctx, id, profile)
	return args.Error(0)
}

// MockLoyaltyRepository is a mock implementation of LoyaltyRepository.
type MockLoyaltyRepository struct {
	mock.Mock
}

func (m *MockLoyaltyRepository) GetSettings(ctx context.Context, shopID uuid.UUID) (*model.LoyaltySettings, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoyaltySettings), args.Error(1)
}

func (m *MockLoyaltyRepository) GetBalance(ctx context.Context, shopID, customerID uuid.UUID) (int, error) {
	args := m.Called(ctx, shopID, customerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoyaltyRepository) ApplyDelta(ctx context.Context, entry *model.LoyaltyLedgerEntry) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}

func (m *MockLoyaltyRepository) ListEntries(ctx context.Context, shopID, customerID uuid.UUID, limit int) ([]model.LoyaltyLedgerEntry, error) {
	args := m.Called(ctx, shopID, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoyaltyLedgerEntry), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, entry *model.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockQuotaChecker is a mock implementation of quota.Checker.
type MockQuotaChecker struct {
	mock.Mock
}

func (m *MockQuotaChecker) Check(ctx context.Context, shopID uuid.UUID, metric string, delta int) (model.Usage, error) {
	args := m.Called(ctx, shopID, metric, delta)
	return args.Get(0).(model.Usage), args.Error(1)
}

// MockCustomerResolver is a mock implementation of CustomerResolver.
type MockCustomerResolver struct {
	mock.Mock
}

func (m *MockCustomerResolver) Resolve(ctx context.Context, shopID uuid.UUID, customerID *string, snapshot model.CustomerSnapshot) *uuid.UUID {
	args := m.Called(ctx, shopID, customerID, snapshot)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*uuid.UUID)
}

// MockAdjuster is a mock implementation of loyalty.Adjuster.
type MockAdjuster struct {
	mock.Mock
}

func (m *MockAdjuster) Adjust(ctx context.Context, params loyalty.AdjustParams) (loyalty.Outcome, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(loyalty.Outcome), args.Error(1)
}

// MockAuditLogger is a mock implementation of AuditLogger.
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogCreate(ctx context.Context, entry *model.AuditLogEntry) {
	m.Called(ctx, entry)
}

// MockInvalidator is a mock implementation of cache.Invalidator.
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, paths ...string) {
	m.Called(ctx, paths)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	args := m.Called(ctx, eventType, payload, partitionKey)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
