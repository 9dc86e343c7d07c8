package model

// Shop member roles.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// Usage metrics tracked against subscription plans.
const (
	MetricInvoices  = "invoices"
	MetricCustomers = "customers"
)

// Usage is the result of a plan usage check.
type Usage struct {
	Allowed bool `json:"allowed"`
	Limit   int  `json:"limit"`
	Used    int  `json:"used"`
}
