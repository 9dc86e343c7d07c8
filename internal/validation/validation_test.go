package validation

import (
	"errors"
	"testing"

	"jewelbook/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.InvoiceRequest {
	return &model.InvoiceRequest{
		ShopID:        "6f1c2b5e-8a4d-4c3b-9e2f-1a2b3c4d5e6f",
		CustomerName:  "Asha",
		CustomerPhone: "+919876543210",
		Items: []model.InvoiceItemRequest{
			{
				Description: "22K gold chain",
				MetalType:   "gold",
				NetWeight:   decimal.RequireFromString("8.25"),
				RatePerGram: decimal.RequireFromString("6100"),
			},
		},
	}
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected *model.ValidationError, got %T", err)
	return verr.Fields
}

func TestValidateInvoiceRequest_ValidAppliesDefaults(t *testing.T) {
	v := New()
	req := validRequest()

	require.NoError(t, v.ValidateInvoiceRequest(req))

	assert.Equal(t, model.InvoiceStatusDue, req.Status)
	require.NotNil(t, req.Discount)
	assert.True(t, req.Discount.IsZero())
	assert.Equal(t, 1, req.Items[0].Quantity)
}

func TestValidateInvoiceRequest_FieldErrors(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(req *model.InvoiceRequest)
		field   string
		message string
	}{
		{
			name:    "Missing shop",
			mutate:  func(req *model.InvoiceRequest) { req.ShopID = "" },
			field:   "shopId",
			message: "is required",
		},
		{
			name:    "Shop not a UUID",
			mutate:  func(req *model.InvoiceRequest) { req.ShopID = "shop-1" },
			field:   "shopId",
			message: "must be a valid UUID",
		},
		{
			name: "Customer id not a UUID",
			mutate: func(req *model.InvoiceRequest) {
				id := "42"
				req.CustomerID = &id
			},
			field:   "customerId",
			message: "must be a valid UUID",
		},
		{
			name:    "Phone with letters",
			mutate:  func(req *model.InvoiceRequest) { req.CustomerPhone = "98765abc10" },
			field:   "customerPhone",
			message: "must be 7 to 15 digits with an optional leading +",
		},
		{
			name:    "Phone too short",
			mutate:  func(req *model.InvoiceRequest) { req.CustomerPhone = "12345" },
			field:   "customerPhone",
			message: "must be 7 to 15 digits with an optional leading +",
		},
		{
			name:    "No items",
			mutate:  func(req *model.InvoiceRequest) { req.Items = []model.InvoiceItemRequest{} },
			field:   "items",
			message: "must contain at least 1 item(s)",
		},
		{
			name:    "Nil items",
			mutate:  func(req *model.InvoiceRequest) { req.Items = nil },
			field:   "items",
			message: "is required",
		},
		{
			name:    "Zero net weight",
			mutate:  func(req *model.InvoiceRequest) { req.Items[0].NetWeight = decimal.Zero },
			field:   "items[0].netWeight",
			message: "must be greater than 0",
		},
		{
			name:    "Negative making charges",
			mutate:  func(req *model.InvoiceRequest) { req.Items[0].MakingCharges = decimal.RequireFromString("-1") },
			field:   "items[0].makingCharges",
			message: "must be at least 0",
		},
		{
			name:    "Unknown metal",
			mutate:  func(req *model.InvoiceRequest) { req.Items[0].MetalType = "copper" },
			field:   "items[0].metalType",
			message: "must be one of: gold silver platinum diamond other",
		},
		{
			name:    "Negative quantity",
			mutate:  func(req *model.InvoiceRequest) { req.Items[0].Quantity = -2 },
			field:   "items[0].quantity",
			message: "must be at least 1",
		},
		{
			name: "Negative discount",
			mutate: func(req *model.InvoiceRequest) {
				d := decimal.RequireFromString("-0.01")
				req.Discount = &d
			},
			field:   "discount",
			message: "must be at least 0",
		},
		{
			name:    "Unknown status",
			mutate:  func(req *model.InvoiceRequest) { req.Status = "draft" },
			field:   "status",
			message: "must be one of: due paid partial cancelled",
		},
		{
			name:    "Negative redemption",
			mutate:  func(req *model.InvoiceRequest) { req.LoyaltyPointsRedeemed = -5 },
			field:   "loyaltyPointsRedeemed",
			message: "must be at least 0",
		},
		{
			name:    "Invalid email",
			mutate:  func(req *model.InvoiceRequest) { req.CustomerEmail = "not-an-email" },
			field:   "customerEmail",
			message: "must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateInvoiceRequest(req)
			require.Error(t, err)

			fields := fieldsOf(t, err)
			assert.Contains(t, fields[tt.field], tt.message, "fields: %v", fields)
		})
	}
}

func TestValidateInvoiceRequest_ReportsEveryFailingField(t *testing.T) {
	v := New()
	req := validRequest()
	req.ShopID = ""
	req.Items[0].Description = ""
	req.Items = append(req.Items, model.InvoiceItemRequest{MetalType: "silver"})

	fields := fieldsOf(t, v.ValidateInvoiceRequest(req))

	assert.Contains(t, fields, "shopId")
	assert.Contains(t, fields, "items[0].description")
	assert.Contains(t, fields, "items[1].description")
	assert.Contains(t, fields, "items[1].netWeight")
}

func TestValidateInvoiceRequest_RedemptionWithCustomerID(t *testing.T) {
	v := New()
	req := validRequest()
	id := " 0b8c3d1e-2f4a-4b5c-8d6e-7f8091a2b3c4 "
	req.CustomerID = &id
	req.CustomerPhone = ""
	req.LoyaltyPointsRedeemed = 50

	require.NoError(t, v.ValidateInvoiceRequest(req))
	assert.Equal(t, "0b8c3d1e-2f4a-4b5c-8d6e-7f8091a2b3c4", *req.CustomerID)
}

// Walk-in redemptions pass validation; the loyalty step reports them as skipped.
func TestValidateInvoiceRequest_RedemptionWithoutCustomer(t *testing.T) {
	v := New()
	req := validRequest()
	req.CustomerPhone = ""
	req.LoyaltyPointsRedeemed = 10

	assert.NoError(t, v.ValidateInvoiceRequest(req))
}

func TestValidateInvoiceRequest_NilRequest(t *testing.T) {
	fields := fieldsOf(t, New().ValidateInvoiceRequest(nil))
	assert.Equal(t, []string{"is required"}, fields["body"])
}

func TestApplyDefaults_BlankCustomerIDBecomesNil(t *testing.T) {
	req := validRequest()
	blank := "   "
	req.CustomerID = &blank

	ApplyDefaults(req)

	assert.Nil(t, req.CustomerID)
}
