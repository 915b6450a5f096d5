package usecase

import (
	"context"
	"time"

	"github.com/leadforge/backend/internal/domain"
)

// AccountUseCase handles account management. Balances start at zero and
// are only ever changed through the ledger.
type AccountUseCase struct {
	accounts AccountRepository
	idGen    IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accounts AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accounts: accounts,
		idGen:    idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// CreateAccount creates a new account with zero credits.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		Credits:   0,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accounts.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accounts.List(ctx, limit, offset)
}
