package domain

import "time"

// Account is one user's credit account. Credits are an abstract unit
// spent by imports; the balance is mutated only through ledger operations.
type Account struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Credits   int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks if the account holds enough credits for a debit.
func (a *Account) ValidateDebit(amount int64) error {
	if a.Credits < amount {
		return &InsufficientCreditsError{Required: amount, Available: a.Credits}
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount int64) int64 {
	return a.Credits - amount
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount int64) int64 {
	return a.Credits + amount
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin can manage credits for any account and view all history.
	RoleAdmin Role = "admin"

	// RoleUser can run imports and view their own history.
	RoleUser Role = "user"
)

var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageCredits checks if the role can credit arbitrary accounts.
func (r Role) CanManageCredits() bool {
	return r == RoleAdmin
}
