package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/leadforge/backend/internal/adapter/http/dto"
	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	Run(ctx context.Context, input usecase.RunImportInput, onProgress usecase.ProgressFunc) (*usecase.ImportSummary, error)
	GetJob(ctx context.Context, id string) (*domain.ImportJob, error)
	ListJobs(ctx context.Context, input usecase.ListJobsInput) ([]*domain.ImportJob, error)
}

// ImportHandler handles bulk-import HTTP requests.
type ImportHandler struct {
	importUC ImportService
	logger   zerolog.Logger
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{importUC: importUC, logger: logger}
}

// Run executes an import batch synchronously and returns the summary.
// Callers polling for progress should fetch the job record instead.
func (h *ImportHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.RunImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	onProgress := func(percent float64) {
		h.logger.Debug().
			Str("user_id", req.UserID).
			Float64("percent", percent).
			Msg("import progress")
	}

	summary, err := h.importUC.Run(r.Context(), req.ToUseCaseInput(), onProgress)
	if err != nil {
		writeError(w, mapDomainError(err), "import failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportSummaryFromUseCase(summary))
}

// Get retrieves one import job.
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job ID", "")
		return
	}

	job, err := h.importUC.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get import job", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportJobFromDomain(job))
}

// List lists a user's import history.
func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id query parameter", "")
		return
	}

	jobs, err := h.importUC.ListJobs(r.Context(), usecase.ListJobsInput{
		UserID: userID,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list import jobs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportJobsFromDomain(jobs))
}
