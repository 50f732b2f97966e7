package request

import "github.com/shopspring/decimal"

// Status values are authoritative from the backend, exact casing included.
// Cancellation is terminal but never observed: a cancelled request simply
// disappears from subsequent fetches.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusDisbursed Status = "DISBURSED"
)

// LoanRequest is the backend's loan-request DTO: one employee's application
// against a loan product, with its lifecycle state and an embedded snapshot
// of the applicant.
type LoanRequest struct {
	ID              int64            `json:"id"`
	Username        string           `json:"username"`
	LoanType        string           `json:"loanType"`
	RequestedAmount decimal.Decimal  `json:"requestedAmount"`
	ApprovedAmount  *decimal.Decimal `json:"approvedAmount,omitempty"`
	Status          Status           `json:"status"`
	RequestDate     string           `json:"requestDate"`
	ManagerRemarks  string           `json:"managerRemarks"`
	User            *UserSnapshot    `json:"userDTO"`
}

// UserSnapshot is the applicant data embedded in a request for the manager's
// decision view.
type UserSnapshot struct {
	Name   string          `json:"name"`
	Salary decimal.Decimal `json:"salary"`
}

// UserName tolerates requests without an embedded snapshot.
func (r LoanRequest) UserName() string {
	if r.User != nil && r.User.Name != "" {
		return r.User.Name
	}
	return r.Username
}
