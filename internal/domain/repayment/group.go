package repayment

import (
	"sort"

	"github.com/archie46/loan-management/internal/domain/money"
	"github.com/archie46/loan-management/internal/domain/request"
)

// Group is one loan request together with its repayments, newest first.
// Collapsed groups show only the latest installment.
type Group struct {
	Request    request.LoanRequest
	Repayments []Repayment
	Expanded   bool
}

// Visible returns the repayments the table renders for this group: the full
// list when expanded, otherwise just the most recent installment.
func (g Group) Visible() []Repayment {
	if g.Expanded || len(g.Repayments) <= 1 {
		return g.Repayments
	}
	return g.Repayments[:1]
}

// HasMore reports whether the group has anything hidden behind the toggle.
func (g Group) HasMore() bool {
	return len(g.Repayments) > 1
}

// GroupByRequest buckets repayments by their loanRequestId and attaches each
// bucket to its owning request, preserving the request collection's order.
// Requests with no repayments are dropped. Every input repayment lands in
// exactly one group: repayments pointing at an unknown request are simply
// unreachable from the requests slice and cannot be rendered.
//
// Buckets are sorted by repaymentDate descending so the collapsed view's
// single row is always the latest installment. Expansion state is per
// request id and independent across groups.
func GroupByRequest(reqs []request.LoanRequest, reps []Repayment, expanded map[int64]bool) []Group {
	buckets := make(map[int64][]Repayment)
	for _, rep := range reps {
		buckets[rep.LoanRequestID] = append(buckets[rep.LoanRequestID], rep)
	}
	for id := range buckets {
		b := buckets[id]
		sort.SliceStable(b, func(i, j int) bool {
			ti, _ := money.ParseDate(b[i].RepaymentDate)
			tj, _ := money.ParseDate(b[j].RepaymentDate)
			return ti.After(tj)
		})
	}

	groups := make([]Group, 0, len(reqs))
	for _, req := range reqs {
		b, ok := buckets[req.ID]
		if !ok || len(b) == 0 {
			continue
		}
		groups = append(groups, Group{
			Request:    req,
			Repayments: b,
			Expanded:   expanded[req.ID],
		})
	}
	return groups
}
