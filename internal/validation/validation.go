// Package validation checks and normalises inbound invoice requests before any
// gate or write runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"jewelbook/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Validator validates invoice requests.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the decimal and phone rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numeric tags (gte, gt) compare decimals as floats.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateInvoiceRequest applies defaults to req and validates it. On failure
// it returns a *model.ValidationError keyed by JSON path.
func (v *Validator) ValidateInvoiceRequest(req *model.InvoiceRequest) error {
	if req == nil {
		verr := model.NewValidationError()
		verr.Add("body", "is required")
		return verr
	}

	ApplyDefaults(req)

	verr := model.NewValidationError()

	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate invoice request: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fieldPath(fe), message(fe))
		}
	}

	if verr.HasErrors() {
		return verr
	}

	return nil
}

// ApplyDefaults fills optional fields: status due, discount 0, quantity 1.
// Identifier and phone fields are trimmed.
func ApplyDefaults(req *model.InvoiceRequest) {
	req.ShopID = strings.TrimSpace(req.ShopID)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)

	if req.CustomerID != nil {
		id := strings.TrimSpace(*req.CustomerID)
		if id == "" {
			req.CustomerID = nil
		} else {
			req.CustomerID = &id
		}
	}

	if req.Status == "" {
		req.Status = model.InvoiceStatusDue
	}

	if req.Discount == nil {
		zero := decimal.Zero
		req.Discount = &zero
	}

	for i := range req.Items {
		if req.Items[i].Quantity == 0 {
			req.Items[i].Quantity = 1
		}
	}
}

// fieldPath strips the root struct name from the namespace:
// "InvoiceRequest.items[0].netWeight" becomes "items[0].netWeight".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "phone":
		return "must be 7 to 15 digits with an optional leading +"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must contain digits only"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
