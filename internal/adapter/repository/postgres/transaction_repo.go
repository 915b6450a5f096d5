package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository over the
// append-only credit_transactions table. Rows are never updated or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, user_name, user_email, amount, reason, balance_after, actor_id, created_at`

// Create appends a transaction inside the caller's database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.CreditTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO credit_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, txn.ID, txn.UserID, txn.UserName, txn.UserEmail, txn.Amount,
		txn.Reason, txn.BalanceAfter, txn.ActorID, txn.CreatedAt)

	return err
}

// ListByUser lists a user's transactions, most recent first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.CreditTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByUserAsc lists all of a user's transactions oldest first, for
// replay verification.
func (r *TransactionRepository) ListByUserAsc(ctx context.Context, userID string) ([]*domain.CreditTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListAll lists transactions across all accounts, most recent first.
func (r *TransactionRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.CreditTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM credit_transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.CreditTransaction, error) {
	var txns []*domain.CreditTransaction
	for rows.Next() {
		var txn domain.CreditTransaction
		err := rows.Scan(&txn.ID, &txn.UserID, &txn.UserName, &txn.UserEmail,
			&txn.Amount, &txn.Reason, &txn.BalanceAfter, &txn.ActorID, &txn.CreatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}
