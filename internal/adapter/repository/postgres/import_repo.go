package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadforge/backend/internal/domain"
)

// ImportJobRepository implements usecase.ImportJobRepository. The bounded
// error list is stored as JSONB on the job row.
type ImportJobRepository struct {
	pool *pgxpool.Pool
}

// NewImportJobRepository creates a new ImportJobRepository.
func NewImportJobRepository(pool *pgxpool.Pool) *ImportJobRepository {
	return &ImportJobRepository{pool: pool}
}

const importColumns = `id, user_id, file_name, total_records, status, success_count, error_count, errors, created_at, completed_at`

// Create persists a job in processing state.
func (r *ImportJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO imports (id, user_id, file_name, total_records, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, job.ID, job.UserID, job.FileName, job.TotalRecords, string(job.Status), job.CreatedAt)

	return err
}

// Complete transitions a job to completed with its final counts. Jobs are
// never reopened.
func (r *ImportJobRepository) Complete(ctx context.Context, id string, successCount, errorCount int, errs []domain.ImportError, completedAt time.Time) error {
	errsJSON, err := json.Marshal(errs)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE imports
		SET status = $2, success_count = $3, error_count = $4, errors = $5, completed_at = $6
		WHERE id = $1 AND status = $7
	`, id, string(domain.ImportStatusCompleted), successCount, errorCount,
		errsJSON, completedAt, string(domain.ImportStatusProcessing))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrImportJobNotFound
	}

	return nil
}

// GetByID retrieves an import job by ID.
func (r *ImportJobRepository) GetByID(ctx context.Context, id string) (*domain.ImportJob, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+importColumns+`
		FROM imports
		WHERE id = $1
	`, id)

	return scanImportJob(row)
}

// ListByUser lists a user's import jobs, most recent first.
func (r *ImportJobRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ImportJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+importColumns+`
		FROM imports
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func scanImportJob(row pgx.Row) (*domain.ImportJob, error) {
	var (
		job      domain.ImportJob
		status   string
		errsJSON []byte
	)

	err := row.Scan(&job.ID, &job.UserID, &job.FileName, &job.TotalRecords,
		&status, &job.SuccessCount, &job.ErrorCount, &errsJSON,
		&job.CreatedAt, &job.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrImportJobNotFound
		}
		return nil, err
	}

	job.Status = domain.ImportStatus(status)

	if len(errsJSON) > 0 {
		if err := json.Unmarshal(errsJSON, &job.Errors); err != nil {
			return nil, err
		}
	}

	return &job, nil
}
