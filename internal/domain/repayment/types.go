package repayment

import "github.com/shopspring/decimal"

// Repayment is one scheduled EMI installment belonging to a disbursed loan
// request. Repayments are never created client-side; the status string is
// treated as opaque because its casing varies by backend endpoint.
type Repayment struct {
	ID            int64           `json:"id"`
	LoanRequestID int64           `json:"loanRequestId"`
	RepaymentDate string          `json:"repaymentDate"`
	EMIAmount     decimal.Decimal `json:"emiAmount"`
	Status        string          `json:"status"`
}
