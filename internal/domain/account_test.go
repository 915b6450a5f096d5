package domain

import (
	"errors"
	"testing"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		credits     int64
		debitAmount int64
		expectError bool
	}{
		{
			name:        "debit less than balance",
			credits:     100,
			debitAmount: 50,
			expectError: false,
		},
		{
			name:        "debit exact balance",
			credits:     100,
			debitAmount: 100,
			expectError: false,
		},
		{
			name:        "debit more than balance",
			credits:     100,
			debitAmount: 150,
			expectError: true,
		},
		{
			name:        "debit from zero balance",
			credits:     0,
			debitAmount: 1,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Credits: tt.credits}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.expectError {
				if !errors.Is(err, ErrInsufficientCredits) {
					t.Errorf("expected ErrInsufficientCredits, got %v", err)
				}

				var icErr *InsufficientCreditsError
				if !errors.As(err, &icErr) {
					t.Fatalf("expected *InsufficientCreditsError, got %T", err)
				}
				if icErr.Required != tt.debitAmount {
					t.Errorf("Required = %d, want %d", icErr.Required, tt.debitAmount)
				}
				if icErr.Available != tt.credits {
					t.Errorf("Available = %d, want %d", icErr.Available, tt.credits)
				}
			}
		})
	}
}

func TestAccount_ApplyCredit(t *testing.T) {
	acc := &Account{Credits: 10}

	if got := acc.ApplyCredit(5); got != 15 {
		t.Errorf("ApplyCredit(5) = %d, want 15", got)
	}
	if got := acc.ApplyCredit(-3); got != 7 {
		t.Errorf("ApplyCredit(-3) = %d, want 7", got)
	}
	if got := acc.ApplyDebit(4); got != 6 {
		t.Errorf("ApplyDebit(4) = %d, want 6", got)
	}
}

func TestRole(t *testing.T) {
	if !RoleAdmin.IsValid() || !RoleUser.IsValid() {
		t.Error("expected admin and user to be valid roles")
	}
	if Role("root").IsValid() {
		t.Error("expected unknown role to be invalid")
	}
	if !RoleAdmin.CanManageCredits() {
		t.Error("expected admin to manage credits")
	}
	if RoleUser.CanManageCredits() {
		t.Error("expected user not to manage credits")
	}
}
