package request

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows the manager queue. Both fields are independent equality
// filters combined with AND; an empty field means no restriction.
type Filter struct {
	Status   string
	LoanType string
}

func (f Filter) Match(r LoanRequest) bool {
	if f.Status != "" && string(r.Status) != f.Status {
		return false
	}
	if f.LoanType != "" && r.LoanType != f.LoanType {
		return false
	}
	return true
}

func (f Filter) Apply(reqs []LoanRequest) []LoanRequest {
	out := make([]LoanRequest, 0, len(reqs))
	for _, r := range reqs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Find locates a request by id within a fetched collection; detail views only
// ever show requests from the current fetch.
func Find(reqs []LoanRequest, id int64) (LoanRequest, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return LoanRequest{}, false
}

var (
	ErrRemarksRequired       = errors.New("please enter remarks")
	ErrInvalidApprovedAmount = errors.New("please enter a valid approved amount")
)

// Decision carries the manager's inputs for approving or rejecting a request.
type Decision struct {
	RequestID      int64           `json:"requestId"`
	ManagerID      int64           `json:"managerId"`
	Remarks        string          `json:"remarks"`
	ApprovedAmount decimal.Decimal `json:"approvedAmount"`
}

// ValidateApprove requires trimmed non-empty remarks and a positive approved
// amount. A failure blocks the API call entirely.
func (d Decision) ValidateApprove() error {
	if strings.TrimSpace(d.Remarks) == "" {
		return ErrRemarksRequired
	}
	if !d.ApprovedAmount.IsPositive() {
		return ErrInvalidApprovedAmount
	}
	return nil
}

// ValidateReject requires only remarks.
func (d Decision) ValidateReject() error {
	if strings.TrimSpace(d.Remarks) == "" {
		return ErrRemarksRequired
	}
	return nil
}
