package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/infrastructure/metrics"
)

// ErrLedgerDrift is returned when an account's transaction log does not
// replay to its stored balance.
var ErrLedgerDrift = errors.New("ledger is inconsistent: transaction log does not match balance")

// LedgerUseCase owns per-user credit balances and their append-only
// transaction log. Every mutation applies the balance update and the log
// append in one database transaction; concurrent mutations on the same
// account serialize through the row lock, with transient conflicts retried
// by the Retrier.
type LedgerUseCase struct {
	txManager TransactionManager
	accounts  AccountRepository
	txns      TransactionRepository
	retrier   Retrier
	idGen     IDGenerator
	notifier  Notifier
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. notifier and m may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accounts AccountRepository,
	txns TransactionRepository,
	retrier Retrier,
	idGen IDGenerator,
	notifier Notifier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager: txManager,
		accounts:  accounts,
		txns:      txns,
		retrier:   retrier,
		idGen:     idGen,
		notifier:  notifier,
		metrics:   m,
	}
}

// GetBalance returns the authoritative current balance, read fresh from
// the store. Authorization decisions must not rely on a cached value.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Credits, nil
}

// CreditInput represents input for adding credits to an account.
type CreditInput struct {
	UserID  string
	Amount  int64
	Reason  string
	ActorID string
}

// Credit atomically increases the balance and appends a transaction.
// There is no upper bound on the balance.
func (uc *LedgerUseCase) Credit(ctx context.Context, input CreditInput) (*domain.CreditTransaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txn, err := uc.mutate(ctx, input.UserID, input.Amount, input.Reason, input.ActorID)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CreditsIssued.Add(float64(input.Amount))
	}
	uc.notify(ctx, domain.EventCreditsAdded, txn)

	return txn, nil
}

// DebitInput represents input for spending credits from an account.
type DebitInput struct {
	UserID  string
	Amount  int64
	Reason  string
	ActorID string
}

// Debit atomically decreases the balance and appends a transaction, only
// if the balance covers the amount. On insufficient credits nothing is
// written and the error carries the required vs. available amounts.
func (uc *LedgerUseCase) Debit(ctx context.Context, input DebitInput) (*domain.CreditTransaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txn, err := uc.mutate(ctx, input.UserID, -input.Amount, input.Reason, input.ActorID)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CreditsSpent.Add(float64(input.Amount))
	}
	uc.notify(ctx, domain.EventCreditsDeducted, txn)

	return txn, nil
}

// mutate runs one read-validate-write cycle under the retrier. amount is
// signed: negative for debits.
func (uc *LedgerUseCase) mutate(ctx context.Context, userID string, amount int64, reason, actorID string) (*domain.CreditTransaction, error) {
	start := time.Now()

	var txn *domain.CreditTransaction

	err := uc.retrier.Retry(ctx, func() error {
		applied, err := uc.applyOnce(ctx, userID, amount, reason, actorID)
		if err != nil {
			return err
		}
		txn = applied
		return nil
	})
	if err != nil {
		uc.recordFailure(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerDuration.Observe(time.Since(start).Seconds())
	}

	return txn, nil
}

func (uc *LedgerUseCase) recordFailure(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrContention):
		uc.metrics.ContentionFailed.Inc()
		uc.metrics.LedgerErrors.WithLabelValues("contention").Inc()
	case errors.Is(err, domain.ErrInsufficientCredits):
		uc.metrics.LedgerErrors.WithLabelValues("insufficient_credits").Inc()
	case errors.Is(err, domain.ErrAccountNotFound):
		uc.metrics.LedgerErrors.WithLabelValues("not_found").Inc()
	default:
		uc.metrics.LedgerErrors.WithLabelValues("internal").Inc()
	}
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, userID string, amount int64, reason, actorID string) (*domain.CreditTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if amount < 0 {
		if err := account.ValidateDebit(-amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	newBalance := account.ApplyCredit(amount)

	txn := &domain.CreditTransaction{
		ID:           uc.idGen.Generate(),
		UserID:       account.ID,
		UserName:     account.Name,
		UserEmail:    account.Email,
		Amount:       amount,
		Reason:       reason,
		BalanceAfter: newBalance,
		ActorID:      actorID,
		CreatedAt:    now,
	}

	if err := uc.accounts.UpdateCredits(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.txns.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// HistoryInput represents input for listing a user's transactions.
type HistoryInput struct {
	UserID string
	Limit  int
	Offset int
}

// History lists a user's transactions, most recent first.
func (uc *LedgerUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.CreditTransaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txns.ListByUser(ctx, input.UserID, limit, offset)
}

// AllHistory lists transactions across all accounts for administrative views.
func (uc *LedgerUseCase) AllHistory(ctx context.Context, limit, offset int) ([]*domain.CreditTransaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.txns.ListAll(ctx, limit, offset)
}

// VerifyAccount replays an account's transaction log oldest-to-newest and
// checks that each running balance matches the recorded BalanceAfter and
// that the final sum equals the stored balance.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, userID string) error {
	account, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	txns, err := uc.txns.ListByUserAsc(ctx, userID)
	if err != nil {
		return err
	}

	var running int64
	for _, txn := range txns {
		running += txn.Amount
		if running != txn.BalanceAfter {
			return fmt.Errorf("%w: transaction %s records balance %d, replay gives %d",
				ErrLedgerDrift, txn.ID, txn.BalanceAfter, running)
		}
	}

	if running != account.Credits {
		return fmt.Errorf("%w: account balance %d, replay gives %d",
			ErrLedgerDrift, account.Credits, running)
	}

	return nil
}

func (uc *LedgerUseCase) notify(ctx context.Context, eventType string, txn *domain.CreditTransaction) {
	if uc.notifier == nil {
		return
	}

	_ = uc.notifier.Publish(ctx, domain.ChangeEvent{
		Type:   eventType,
		UserID: txn.UserID,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"amount":         txn.Amount,
			"balance_after":  txn.BalanceAfter,
		},
		OccurredAt: txn.CreatedAt,
	})
}
