package usecase

import (
	"context"
	"time"

	"github.com/leadforge/backend/internal/domain"
)

// AccountRepository defines data access for credit accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateCredits(ctx context.Context, tx Transaction, id string, credits int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for the append-only credit log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.CreditTransaction) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.CreditTransaction, error)
	ListByUserAsc(ctx context.Context, userID string) ([]*domain.CreditTransaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.CreditTransaction, error)
}

// ImportJobRepository defines data access for import job records.
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	Complete(ctx context.Context, id string, successCount, errorCount int, errs []domain.ImportError, completedAt time.Time) error
	GetByID(ctx context.Context, id string) (*domain.ImportJob, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ImportJob, error)
}

// DealRepository defines data access for CRM deals.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deal, error)
	UpdateStage(ctx context.Context, id string, stage domain.DealStage, closedAt *time.Time, updatedAt time.Time) error
}

// DealSink accepts normalized lead data and materializes a CRM deal.
// The import pipeline only knows whether creation succeeded.
type DealSink interface {
	CreateFromLead(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error)
}

// CreditLedger is the ledger surface the import pipeline depends on.
type CreditLedger interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Debit(ctx context.Context, input DebitInput) (*domain.CreditTransaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient conflicts. Implementations
// must return domain.ErrContention once the retry budget is exhausted and
// pass non-retryable errors through unchanged.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Notifier publishes change events at the boundary. Publishing is
// best-effort and never affects the outcome of the operation.
type Notifier interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
