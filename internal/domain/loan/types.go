package loan

import "github.com/shopspring/decimal"

// Product is a loan template an employee can apply against. It mirrors the
// backend's loan DTO; the client never owns product identity.
type Product struct {
	ID              int64           `json:"id"`
	LoanType        string          `json:"loanType"`
	MaxAmount       decimal.Decimal `json:"maxAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	DurationMonths  int             `json:"durationMonths"`
	ApproverManager *Manager        `json:"approverManager"`
}

// Manager is the nullable approver reference embedded in a product.
type Manager struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProductInput is the create/update payload for the admin product form.
// Only the approver id is sent; the backend resolves the reference.
type ProductInput struct {
	LoanType        string          `json:"loanType"`
	MaxAmount       decimal.Decimal `json:"maxAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	DurationMonths  int             `json:"durationMonths"`
	ApproverManager *Manager        `json:"approverManager"`
}

// Application is a validated apply-loan submission.
type Application struct {
	Username        string          `json:"username"`
	LoanType        string          `json:"loanType"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
}
