package model

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
	Used   *int                `json:"used,omitempty"`
	Limit  *int                `json:"limit,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeValidationFailed        = "VALIDATION_FAILED"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodePlanLimitExceeded       = "PLAN_LIMIT_EXCEEDED"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	ErrCodeDuplicateInvoiceNumber  = "DUPLICATE_INVOICE_NUMBER"
	ErrCodeCreateInvoiceFailed     = "CREATE_INVOICE_FAILED"
	ErrCodeInvoiceNotFound         = "INVOICE_NOT_FOUND"
	ErrCodeCustomerNotFound        = "CUSTOMER_NOT_FOUND"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// DomainError is a business error with a stable code and HTTP status.
type DomainError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped instances compare equal to the sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common domain errors
var (
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "authentication required", http.StatusUnauthorized)
	ErrRateLimited             = NewDomainError(ErrCodeRateLimited, "too many requests, please retry later", http.StatusTooManyRequests)
	ErrInsufficientPermissions = NewDomainError(ErrCodeInsufficientPermissions, "you do not have permission to perform this action", http.StatusForbidden)
	ErrDuplicateInvoiceNumber  = NewDomainError(ErrCodeDuplicateInvoiceNumber, "an invoice with this number already exists for the shop", http.StatusConflict)
	ErrInvoiceNotFound         = NewDomainError(ErrCodeInvoiceNotFound, "invoice not found", http.StatusNotFound)
	ErrCustomerNotFound        = NewDomainError(ErrCodeCustomerNotFound, "customer not found", http.StatusNotFound)
)

// NewCreateInvoiceFailed wraps a persistence failure, keeping the underlying message for operators.
func NewCreateInvoiceFailed(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeCreateInvoiceFailed,
		Message: "failed to create invoice",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ValidationError carries per-field messages keyed by JSON path.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates an empty validation error.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// QuotaExceededError reports that a shop reached its plan quota for a metric.
type QuotaExceededError struct {
	Metric string
	Used   int
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("plan limit reached for %s (%d/%d)", e.Metric, e.Used, e.Limit)
}
