package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:  r.Name,
		Email: r.Email,
		Role:  domain.Role(r.Role),
	}
}

// AddCreditsRequest represents a request to credit an account.
type AddCreditsRequest struct {
	UserID  string `json:"user_id"`
	Amount  int64  `json:"amount"`
	Reason  string `json:"reason"`
	ActorID string `json:"actor_id"`
}

// ToUseCaseInput converts to use case input.
func (r *AddCreditsRequest) ToUseCaseInput() usecase.CreditInput {
	return usecase.CreditInput{
		UserID:  r.UserID,
		Amount:  r.Amount,
		Reason:  r.Reason,
		ActorID: r.ActorID,
	}
}

// DeductCreditsRequest represents a request to debit an account.
type DeductCreditsRequest struct {
	UserID  string `json:"user_id"`
	Amount  int64  `json:"amount"`
	Reason  string `json:"reason"`
	ActorID string `json:"actor_id"`
}

// ToUseCaseInput converts to use case input.
func (r *DeductCreditsRequest) ToUseCaseInput() usecase.DebitInput {
	return usecase.DebitInput{
		UserID:  r.UserID,
		Amount:  r.Amount,
		Reason:  r.Reason,
		ActorID: r.ActorID,
	}
}

// RunImportRequest represents a bulk-import submission. Records carry the
// already-parsed rows; file parsing happens at the client edge.
type RunImportRequest struct {
	UserID   string              `json:"user_id"`
	FileName string              `json:"file_name,omitempty"`
	Records  []domain.LeadRecord `json:"records"`
}

// ToUseCaseInput converts to use case input.
func (r *RunImportRequest) ToUseCaseInput() usecase.RunImportInput {
	return usecase.RunImportInput{
		UserID:   r.UserID,
		FileName: r.FileName,
		Records:  r.Records,
	}
}

// CreateDealRequest represents a request to create a deal directly.
type CreateDealRequest struct {
	UserID            string          `json:"user_id"`
	Company           string          `json:"company"`
	ContactName       string          `json:"contact_name"`
	ContactEmail      string          `json:"contact_email,omitempty"`
	ContactPhone      string          `json:"contact_phone,omitempty"`
	CNPJ              string          `json:"cnpj,omitempty"`
	Value             decimal.Decimal `json:"value"`
	ExpectedCloseDate time.Time       `json:"expected_close_date"`
	Stage             string          `json:"stage,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDealRequest) ToUseCaseInput() usecase.CreateDealInput {
	return usecase.CreateDealInput{
		UserID:            r.UserID,
		Company:           r.Company,
		ContactName:       r.ContactName,
		ContactEmail:      r.ContactEmail,
		ContactPhone:      r.ContactPhone,
		CNPJ:              r.CNPJ,
		Value:             r.Value,
		ExpectedCloseDate: r.ExpectedCloseDate,
		Stage:             domain.DealStage(r.Stage),
		Notes:             r.Notes,
	}
}

// MoveDealStageRequest represents a request to move a deal between stages.
type MoveDealStageRequest struct {
	Stage string `json:"stage"`
}
