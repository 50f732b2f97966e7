package loan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/archie46/loan-management/internal/domain/money"
)

// Apply-loan validation failures. These surface inline on the form and never
// reach the backend.
var (
	ErrNotLoggedIn = errors.New("user not logged in")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateApplication checks an apply-loan submission before any network
// call: the session must carry a username, the amount must parse as a
// positive number, and it must not exceed the product's maximum. The
// exceeds-max message names the maximum so the user can correct the amount.
func ValidateApplication(username, rawAmount string, product Product) (Application, error) {
	if strings.TrimSpace(username) == "" {
		return Application{}, ErrNotLoggedIn
	}

	amount, err := money.ParseAmount(rawAmount)
	if err != nil || !amount.IsPositive() {
		return Application{}, &ValidationError{Message: "Please enter a valid amount."}
	}
	if amount.GreaterThan(product.MaxAmount) {
		return Application{}, &ValidationError{
			Message: fmt.Sprintf("Requested amount cannot exceed max amount: %s", money.FormatINR(product.MaxAmount)),
		}
	}

	return Application{
		Username:        username,
		LoanType:        product.LoanType,
		RequestedAmount: amount,
	}, nil
}
