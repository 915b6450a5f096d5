package domain

import "time"

// CreditTransaction is an immutable audit record of one balance mutation.
// Amount is signed: positive for credits, negative for debits. BalanceAfter
// is the account balance once the mutation was applied, so replaying a
// user's transactions oldest-to-newest reproduces the current balance.
type CreditTransaction struct {
	ID           string
	UserID       string
	UserName     string
	UserEmail    string
	Amount       int64
	Reason       string
	BalanceAfter int64
	ActorID      string
	CreatedAt    time.Time
}

// IsDebit reports whether the transaction decreased the balance.
func (t *CreditTransaction) IsDebit() bool {
	return t.Amount < 0
}
