package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Credits   int64     `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Credits:   a.Credits,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents a balance read.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Credits int64  `json:"credits"`
}

// TransactionResponse represents a credit transaction in API responses.
type TransactionResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	Amount       int64     `json:"amount"`
	Reason       string    `json:"reason"`
	BalanceAfter int64     `json:"balance_after"`
	ActorID      string    `json:"actor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.CreditTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		UserName:     t.UserName,
		UserEmail:    t.UserEmail,
		Amount:       t.Amount,
		Reason:       t.Reason,
		BalanceAfter: t.BalanceAfter,
		ActorID:      t.ActorID,
		CreatedAt:    t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.CreditTransaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ImportErrorResponse represents one failed row.
type ImportErrorResponse struct {
	Row     int               `json:"row"`
	RawData domain.LeadRecord `json:"raw_data"`
	Message string            `json:"message"`
}

// ImportSummaryResponse is the result returned from a completed run.
type ImportSummaryResponse struct {
	JobID        string                `json:"job_id"`
	SuccessCount int                   `json:"success_count"`
	ErrorCount   int                   `json:"error_count"`
	Errors       []ImportErrorResponse `json:"errors"`
}

// ImportSummaryFromUseCase converts a pipeline summary to a response.
func ImportSummaryFromUseCase(s *usecase.ImportSummary) *ImportSummaryResponse {
	return &ImportSummaryResponse{
		JobID:        s.JobID,
		SuccessCount: s.SuccessCount,
		ErrorCount:   s.ErrorCount,
		Errors:       importErrorsFromDomain(s.Errors),
	}
}

// ImportJobResponse represents an import job record.
type ImportJobResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	FileName     string                `json:"file_name"`
	TotalRecords int                   `json:"total_records"`
	Status       string                `json:"status"`
	SuccessCount int                   `json:"success_count"`
	ErrorCount   int                   `json:"error_count"`
	Errors       []ImportErrorResponse `json:"errors,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
}

// ImportJobFromDomain converts a domain job to a response.
func ImportJobFromDomain(j *domain.ImportJob) *ImportJobResponse {
	return &ImportJobResponse{
		ID:           j.ID,
		UserID:       j.UserID,
		FileName:     j.FileName,
		TotalRecords: j.TotalRecords,
		Status:       string(j.Status),
		SuccessCount: j.SuccessCount,
		ErrorCount:   j.ErrorCount,
		Errors:       importErrorsFromDomain(j.Errors),
		CreatedAt:    j.CreatedAt,
		CompletedAt:  j.CompletedAt,
	}
}

// ImportJobsFromDomain converts domain jobs to responses.
func ImportJobsFromDomain(jobs []*domain.ImportJob) []*ImportJobResponse {
	result := make([]*ImportJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = ImportJobFromDomain(j)
	}
	return result
}

func importErrorsFromDomain(errs []domain.ImportError) []ImportErrorResponse {
	result := make([]ImportErrorResponse, len(errs))
	for i, e := range errs {
		result[i] = ImportErrorResponse{
			Row:     e.Row,
			RawData: e.RawData,
			Message: e.Message,
		}
	}
	return result
}

// DealResponse represents a deal in API responses.
type DealResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Company           string          `json:"company"`
	ContactName       string          `json:"contact_name"`
	ContactEmail      string          `json:"contact_email,omitempty"`
	ContactPhone      string          `json:"contact_phone,omitempty"`
	CNPJ              string          `json:"cnpj,omitempty"`
	Value             decimal.Decimal `json:"value"`
	ExpectedCloseDate time.Time       `json:"expected_close_date"`
	Stage             string          `json:"stage"`
	Notes             string          `json:"notes,omitempty"`
	LeadID            string          `json:"lead_id,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DealFromDomain converts a domain deal to a response.
func DealFromDomain(d *domain.Deal) *DealResponse {
	return &DealResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		Company:           d.Company,
		ContactName:       d.ContactName,
		ContactEmail:      d.ContactEmail,
		ContactPhone:      d.ContactPhone,
		CNPJ:              d.CNPJ,
		Value:             d.Value,
		ExpectedCloseDate: d.ExpectedCloseDate,
		Stage:             string(d.Stage),
		Notes:             d.Notes,
		LeadID:            d.LeadID,
		ClosedAt:          d.ClosedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// DealsFromDomain converts domain deals to responses.
func DealsFromDomain(deals []*domain.Deal) []*DealResponse {
	result := make([]*DealResponse, len(deals))
	for i, d := range deals {
		result[i] = DealFromDomain(d)
	}
	return result
}

// VerifyResponse represents a ledger consistency check result.
type VerifyResponse struct {
	UserID     string `json:"user_id"`
	Consistent bool   `json:"consistent"`
	Detail     string `json:"detail,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
