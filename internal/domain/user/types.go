package user

import "github.com/shopspring/decimal"

// User mirrors the backend's user DTO. Password is write-only: it is sent on
// admin create/update and never comes back in responses.
type User struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	Role              string          `json:"role"`
	Department        string          `json:"department"`
	Salary            decimal.Decimal `json:"salary"`
	BankAccountNumber string          `json:"bankAccountNumber"`
	AccountBalance    decimal.Decimal `json:"accountBalance"`
	IsActive          bool            `json:"isActive"`
	Password          string          `json:"password,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == "ADMIN"
}

// SelfDeleteBlocked guards the admin table's delete action: an admin cannot
// remove their own admin account. Best-effort UI rule only; the backend does
// not enforce it.
func SelfDeleteBlocked(target User, sessionUserID int64) bool {
	return target.IsAdmin() && target.ID == sessionUserID
}
