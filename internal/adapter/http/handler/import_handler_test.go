package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/leadforge/backend/internal/adapter/http/dto"
	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

type importServiceStub struct {
	runFn      func(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error)
	getJobFn   func(ctx context.Context, id string) (*domain.ImportJob, error)
	listJobsFn func(ctx context.Context, input usecase.ListJobsInput) ([]*domain.ImportJob, error)
}

func (s *importServiceStub) Run(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error) {
	return s.runFn(ctx, input, onProgress)
}

func (s *importServiceStub) GetJob(ctx context.Context, id string) (*domain.ImportJob, error) {
	return s.getJobFn(ctx, id)
}

func (s *importServiceStub) ListJobs(ctx context.Context, input usecase.ListJobsInput) ([]*domain.ImportJob, error) {
	return s.listJobsFn(ctx, input)
}

func TestImportHandler_Run_Success(t *testing.T) {
	var captured usecase.RunImportInput
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error) {
			captured = input
			if onProgress != nil {
				onProgress(50)
				onProgress(100)
			}
			return &usecase.ImportSummary{
				JobID:        "job-1",
				SuccessCount: 2,
				ErrorCount:   1,
				Errors: []domain.ImportError{
					{Row: 3, RawData: domain.LeadRecord{"empresa": "Bad Co"}, Message: "invalid email"},
				},
			}, nil
		},
	}, zerolog.Nop())

	body, _ := json.Marshal(dto.RunImportRequest{
		UserID:   "user-1",
		FileName: "leads.csv",
		Records: []domain.LeadRecord{
			{"empresa": "A"}, {"empresa": "B"}, {"empresa": "Bad Co"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Run(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "user-1" || len(captured.Records) != 3 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.ImportSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.JobID != "job-1" || resp.SuccessCount != 2 || resp.ErrorCount != 1 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Row != 3 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
}

func TestImportHandler_Run_InsufficientCredits(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error) {
			return nil, &domain.InsufficientCreditsError{Required: 10, Available: 4}
		},
	}, zerolog.Nop())

	body, _ := json.Marshal(dto.RunImportRequest{UserID: "user-1", Records: []domain.LeadRecord{{"empresa": "A"}}})
	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Run(rec, req)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestImportHandler_Run_EmptyBatch(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		runFn: func(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error) {
			return nil, domain.ErrEmptyImportBatch
		},
	}, zerolog.Nop())

	body, _ := json.Marshal(dto.RunImportRequest{UserID: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/imports", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Run(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandler_Get(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		getJobFn: func(ctx context.Context, id string) (*domain.ImportJob, error) {
			if id != "job-1" {
				return nil, domain.ErrImportJobNotFound
			}
			return &domain.ImportJob{ID: "job-1", UserID: "user-1", Status: domain.ImportStatusCompleted}, nil
		},
	}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/imports/job-1", nil)
	req = setChiURLParam(req, "id", "job-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/imports/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec = httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestImportHandler_List_RequiresUserID(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		listJobsFn: func(ctx context.Context, input usecase.ListJobsInput) ([]*domain.ImportJob, error) {
			t.Fatal("ListJobs should not be called without user_id")
			return nil, nil
		},
	}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/imports", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
