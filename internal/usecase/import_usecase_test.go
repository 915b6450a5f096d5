package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
	"github.com/leadforge/backend/internal/usecase/mocks"
)

// importFixture wires a real ledger over mocks so import debits actually
// move a balance.
type importFixture struct {
	uc       *usecase.ImportUseCase
	ledger   *usecase.LedgerUseCase
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	jobs     *mocks.MockImportJobRepository
	sink     *mocks.MockDealSink
	notifier *mocks.MockNotifier
}

func newImportFixture(startCredits int64) *importFixture {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	jobRepo := mocks.NewMockImportJobRepository()
	sink := mocks.NewMockDealSink()
	notifier := mocks.NewMockNotifier()

	ledger := usecase.NewLedgerUseCase(mocks.NewMockTransactionManager(), accRepo, txnRepo,
		mocks.NewMockRetrier(), mocks.NewMockIDGenerator(), nil, nil)

	uc := usecase.NewImportUseCase(ledger, sink, jobRepo,
		mocks.NewMockIDGenerator(), notifier, nil)

	accRepo.Seed(&domain.Account{ID: "user-1", Name: "Maria", Email: "maria@acme.com", Credits: startCredits})

	return &importFixture{
		uc:       uc,
		ledger:   ledger,
		accounts: accRepo,
		txns:     txnRepo,
		jobs:     jobRepo,
		sink:     sink,
		notifier: notifier,
	}
}

func leadRecords(n int) []domain.LeadRecord {
	records := make([]domain.LeadRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, domain.LeadRecord{
			"empresa": fmt.Sprintf("Company %d", i+1),
			"contato": fmt.Sprintf("Contact %d", i+1),
		})
	}
	return records
}

func TestImportUseCase_Run_AllSucceed(t *testing.T) {
	f := newImportFixture(10)

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:   "user-1",
		FileName: "leads.csv",
		Records:  leadRecords(5),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.SuccessCount != 5 || summary.ErrorCount != 0 {
		t.Errorf("summary = %d success %d error, want 5 and 0", summary.SuccessCount, summary.ErrorCount)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("expected no errors, got %v", summary.Errors)
	}

	// One credit spent per record.
	balance, _ := f.ledger.GetBalance(context.Background(), "user-1")
	if balance != 5 {
		t.Errorf("balance = %d, want 5", balance)
	}
	if got := len(f.sink.Leads()); got != 5 {
		t.Errorf("deals created = %d, want 5", got)
	}

	job, err := f.uc.GetJob(context.Background(), summary.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != domain.ImportStatusCompleted {
		t.Errorf("job status = %q, want completed", job.Status)
	}
	if job.SuccessCount+job.ErrorCount != job.TotalRecords {
		t.Errorf("count invariant broken: %d + %d != %d", job.SuccessCount, job.ErrorCount, job.TotalRecords)
	}
	if job.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
}

func TestImportUseCase_Run_InsufficientCredits(t *testing.T) {
	f := newImportFixture(3)

	_, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(5),
	}, nil)

	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	var icErr *domain.InsufficientCreditsError
	if !errors.As(err, &icErr) {
		t.Fatalf("expected *InsufficientCreditsError, got %T", err)
	}
	if icErr.Required != 5 || icErr.Available != 3 {
		t.Errorf("got required %d available %d, want 5 and 3", icErr.Required, icErr.Available)
	}

	// Pre-authorization failure leaves zero side effects.
	if f.jobs.Count() != 0 {
		t.Errorf("expected no job record, got %d", f.jobs.Count())
	}
	if len(f.sink.Leads()) != 0 {
		t.Errorf("expected no deals, got %d", len(f.sink.Leads()))
	}
	if f.txns.Count() != 0 {
		t.Errorf("expected no transactions, got %d", f.txns.Count())
	}
	balance, _ := f.ledger.GetBalance(context.Background(), "user-1")
	if balance != 3 {
		t.Errorf("balance = %d, want 3", balance)
	}
}

func TestImportUseCase_Run_EmptyBatch(t *testing.T) {
	f := newImportFixture(10)

	_, err := f.uc.Run(context.Background(), usecase.RunImportInput{UserID: "user-1"}, nil)
	if !errors.Is(err, domain.ErrEmptyImportBatch) {
		t.Fatalf("expected ErrEmptyImportBatch, got %v", err)
	}
	if f.jobs.Count() != 0 {
		t.Errorf("expected no job record, got %d", f.jobs.Count())
	}
}

func TestImportUseCase_Run_PerRecordFailuresRecovered(t *testing.T) {
	f := newImportFixture(10)

	// Fail rows whose company ends in an even number.
	f.sink.CreateFromLeadFunc = func(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error) {
		if lead.Company == "Company 2" || lead.Company == "Company 4" {
			return nil, &domain.RecordValidationError{Field: "email", Message: "bad address"}
		}
		return &domain.Deal{ID: "deal-" + lead.Company, UserID: userID, Company: lead.Company}, nil
	}

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(5),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.SuccessCount != 3 || summary.ErrorCount != 2 {
		t.Errorf("summary = %d success %d error, want 3 and 2", summary.SuccessCount, summary.ErrorCount)
	}
	if len(summary.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(summary.Errors))
	}

	// Rows are 1-based and carry the original record.
	if summary.Errors[0].Row != 2 || summary.Errors[1].Row != 4 {
		t.Errorf("error rows = %d, %d, want 2 and 4", summary.Errors[0].Row, summary.Errors[1].Row)
	}
	if summary.Errors[0].RawData["empresa"] != "Company 2" {
		t.Errorf("RawData = %v, want original record", summary.Errors[0].RawData)
	}

	// Only successful rows are debited.
	balance, _ := f.ledger.GetBalance(context.Background(), "user-1")
	if balance != 7 {
		t.Errorf("balance = %d, want 7", balance)
	}

	job, _ := f.uc.GetJob(context.Background(), summary.JobID)
	if job.Status != domain.ImportStatusCompleted {
		t.Errorf("job status = %q, want completed despite row failures", job.Status)
	}
}

func TestImportUseCase_Run_DebitFailureCountsAsError(t *testing.T) {
	f := newImportFixture(10)

	// Drain the balance after pre-authorization but before the third
	// record's debit, emulating a concurrent spender.
	drained := false
	f.sink.CreateFromLeadFunc = func(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error) {
		if lead.Company == "Company 3" && !drained {
			drained = true
			_, err := f.ledger.Debit(ctx, usecase.DebitInput{UserID: "user-1", Amount: 8, Reason: "rival", ActorID: "user-2"})
			if err != nil {
				t.Fatalf("drain debit: %v", err)
			}
		}
		return &domain.Deal{ID: "deal-" + lead.Company, UserID: userID, Company: lead.Company}, nil
	}

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(5),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Records 1-2 debit fine (10 -> 8), the drain takes 8, and records
	// 3-5 fail their debits.
	if summary.SuccessCount != 2 || summary.ErrorCount != 3 {
		t.Errorf("summary = %d success %d error, want 2 and 3", summary.SuccessCount, summary.ErrorCount)
	}
	for _, e := range summary.Errors {
		if e.Row < 3 {
			t.Errorf("unexpected failed row %d", e.Row)
		}
	}
}

func TestImportUseCase_Run_ErrorListBounded(t *testing.T) {
	f := newImportFixture(50)

	f.sink.CreateFromLeadFunc = func(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error) {
		return nil, errors.New("sink unavailable")
	}

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(15),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The caller sees every error.
	if len(summary.Errors) != 15 {
		t.Errorf("summary errors = %d, want 15", len(summary.Errors))
	}

	// The job record keeps only the first ten.
	job, _ := f.uc.GetJob(context.Background(), summary.JobID)
	if len(job.Errors) != domain.MaxPersistedImportErrors {
		t.Errorf("persisted errors = %d, want %d", len(job.Errors), domain.MaxPersistedImportErrors)
	}
	for i, e := range job.Errors {
		if e.Row != i+1 {
			t.Errorf("persisted error %d has row %d, want %d", i, e.Row, i+1)
		}
	}
}

func TestImportUseCase_Run_ProgressReporting(t *testing.T) {
	f := newImportFixture(10)

	var reported []float64
	onProgress := func(percent float64) {
		reported = append(reported, percent)
	}

	_, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(4),
	}, onProgress)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reported) != 4 {
		t.Fatalf("expected 4 progress calls, got %d", len(reported))
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] <= reported[i-1] {
			t.Errorf("progress not strictly increasing: %v", reported)
		}
	}
	if reported[len(reported)-1] != 100 {
		t.Errorf("final progress = %v, want 100", reported[len(reported)-1])
	}
}

func TestImportUseCase_Run_JobCreationFailureAborts(t *testing.T) {
	f := newImportFixture(10)

	f.jobs.CreateFunc = func(ctx context.Context, job *domain.ImportJob) error {
		return errors.New("insert failed")
	}

	_, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(3),
	}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	// No records may be touched if the job row never existed.
	if len(f.sink.Leads()) != 0 {
		t.Errorf("expected no deals, got %d", len(f.sink.Leads()))
	}
	balance, _ := f.ledger.GetBalance(context.Background(), "user-1")
	if balance != 10 {
		t.Errorf("balance = %d, want 10", balance)
	}
}

func TestImportUseCase_Run_DefaultFileName(t *testing.T) {
	f := newImportFixture(10)

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(1),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	job, _ := f.uc.GetJob(context.Background(), summary.JobID)
	if job.FileName != usecase.DefaultImportFileName {
		t.Errorf("FileName = %q, want %q", job.FileName, usecase.DefaultImportFileName)
	}
}

func TestImportUseCase_Run_NotifiesCompletion(t *testing.T) {
	f := newImportFixture(10)

	summary, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID:  "user-1",
		Records: leadRecords(2),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	events := f.notifier.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != domain.EventImportCompleted {
		t.Errorf("event type = %q, want %q", events[0].Type, domain.EventImportCompleted)
	}
	if events[0].Payload["job_id"] != summary.JobID {
		t.Errorf("event job_id = %v, want %s", events[0].Payload["job_id"], summary.JobID)
	}
}

func TestImportUseCase_Run_NormalizesBeforeSink(t *testing.T) {
	f := newImportFixture(10)

	_, err := f.uc.Run(context.Background(), usecase.RunImportInput{
		UserID: "user-1",
		Records: []domain.LeadRecord{
			{"empresa": "Acme BR", "company": "Acme EN", "contato": "Maria"},
			{"email": "solo@lead.com"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	leads := f.sink.Leads()
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].Company != "Acme BR" {
		t.Errorf("Company = %q, want portuguese synonym to win", leads[0].Company)
	}
	if leads[1].Company != domain.PlaceholderCompany || leads[1].ContactName != domain.PlaceholderContact {
		t.Errorf("expected placeholders, got %+v", leads[1])
	}
}
