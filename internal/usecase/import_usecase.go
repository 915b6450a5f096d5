package usecase

import (
	"context"
	"time"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/infrastructure/metrics"
)

// ProgressFunc receives the completion percentage after each processed
// record. It is invoked in-line; a blocking callback delays the batch.
type ProgressFunc func(percent float64)

// ImportUseCase drives the bulk-import pipeline: it pre-authorizes the
// batch against the credit ledger, materializes one deal and spends one
// credit per record, and persists a job summary.
//
// Only pre-authorization and job creation abort the whole run. Per-record
// failures are recorded and processing continues; the job record, once
// created, is always marked completed.
type ImportUseCase struct {
	ledger   CreditLedger
	deals    DealSink
	jobs     ImportJobRepository
	idGen    IDGenerator
	notifier Notifier
	metrics  *metrics.Metrics
}

// NewImportUseCase creates a new ImportUseCase. notifier and m may be nil.
func NewImportUseCase(
	ledger CreditLedger,
	deals DealSink,
	jobs ImportJobRepository,
	idGen IDGenerator,
	notifier Notifier,
	m *metrics.Metrics,
) *ImportUseCase {
	return &ImportUseCase{
		ledger:   ledger,
		deals:    deals,
		jobs:     jobs,
		idGen:    idGen,
		notifier: notifier,
		metrics:  m,
	}
}

// RunImportInput represents one bulk-import request.
type RunImportInput struct {
	UserID   string
	FileName string
	Records  []domain.LeadRecord
}

// ImportSummary is returned to the immediate caller. Errors holds the
// full, unbounded list; the persisted job keeps only the first
// domain.MaxPersistedImportErrors entries.
type ImportSummary struct {
	JobID        string
	SuccessCount int
	ErrorCount   int
	Errors       []domain.ImportError
}

// Run executes the import batch sequentially, in input order.
func (uc *ImportUseCase) Run(ctx context.Context, input RunImportInput, onProgress ProgressFunc) (*ImportSummary, error) {
	required := len(input.Records)
	if required == 0 {
		return nil, domain.ErrEmptyImportBatch
	}

	// Pre-authorization: zero side effects when the balance cannot cover
	// the whole batch.
	balance, err := uc.ledger.GetBalance(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if balance < int64(required) {
		return nil, &domain.InsufficientCreditsError{
			Required:  int64(required),
			Available: balance,
		}
	}

	fileName := input.FileName
	if fileName == "" {
		fileName = DefaultImportFileName
	}

	job := &domain.ImportJob{
		ID:           uc.idGen.Generate(),
		UserID:       input.UserID,
		FileName:     fileName,
		TotalRecords: required,
		Status:       domain.ImportStatusProcessing,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ImportJobs.Inc()
	}

	start := time.Now()

	var (
		successCount int
		errorCount   int
		importErrors []domain.ImportError
	)

	for i, record := range input.Records {
		lead := domain.NormalizeLead(record)

		// The deal is created before the credit is spent, matching the
		// observed production behavior. A debit that fails afterwards
		// counts the row as an error.
		_, err := uc.deals.CreateFromLead(ctx, input.UserID, lead)
		if err != nil {
			errorCount++
			importErrors = append(importErrors, domain.ImportError{
				Row:     i + 1,
				RawData: record,
				Message: err.Error(),
			})
		} else {
			_, err = uc.ledger.Debit(ctx, DebitInput{
				UserID:  input.UserID,
				Amount:  ImportDebitAmount,
				Reason:  ImportReasonPrefix + lead.Company,
				ActorID: input.UserID,
			})
			if err != nil {
				errorCount++
				importErrors = append(importErrors, domain.ImportError{
					Row:     i + 1,
					RawData: record,
					Message: err.Error(),
				})
			} else {
				successCount++
			}
		}

		if onProgress != nil {
			onProgress(float64(i+1) / float64(required) * 100)
		}
	}

	completedAt := time.Now().UTC()
	err = uc.jobs.Complete(ctx, job.ID, successCount, errorCount, domain.BoundErrors(importErrors), completedAt)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ImportRows.WithLabelValues("success").Add(float64(successCount))
		uc.metrics.ImportRows.WithLabelValues("error").Add(float64(errorCount))
		uc.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}

	uc.notifyCompleted(ctx, job.ID, input.UserID, successCount, errorCount, completedAt)

	return &ImportSummary{
		JobID:        job.ID,
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		Errors:       importErrors,
	}, nil
}

// GetJob retrieves an import job by ID.
func (uc *ImportUseCase) GetJob(ctx context.Context, id string) (*domain.ImportJob, error) {
	return uc.jobs.GetByID(ctx, id)
}

// ListJobsInput represents input for listing a user's import history.
type ListJobsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListJobs lists a user's import jobs, most recent first.
func (uc *ImportUseCase) ListJobs(ctx context.Context, input ListJobsInput) ([]*domain.ImportJob, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.jobs.ListByUser(ctx, input.UserID, limit, offset)
}

func (uc *ImportUseCase) notifyCompleted(ctx context.Context, jobID, userID string, successCount, errorCount int, at time.Time) {
	if uc.notifier == nil {
		return
	}

	_ = uc.notifier.Publish(ctx, domain.ChangeEvent{
		Type:   domain.EventImportCompleted,
		UserID: userID,
		Payload: map[string]any{
			"job_id":        jobID,
			"success_count": successCount,
			"error_count":   errorCount,
		},
		OccurredAt: at,
	})
}
