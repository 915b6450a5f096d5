package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadforge/backend/internal/adapter/http/dto"
	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// DealService defines the behavior needed by DealHandler.
type DealService interface {
	CreateDeal(ctx context.Context, input usecase.CreateDealInput) (*domain.Deal, error)
	GetDeal(ctx context.Context, id string) (*domain.Deal, error)
	ListDeals(ctx context.Context, input usecase.ListDealsInput) ([]*domain.Deal, error)
	MoveDealStage(ctx context.Context, id string, stage domain.DealStage) (*domain.Deal, error)
}

// DealHandler handles CRM deal HTTP requests.
type DealHandler struct {
	dealUC DealService
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealUC DealService) *DealHandler {
	return &DealHandler{dealUC: dealUC}
}

// Create creates a new deal.
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deal, err := h.dealUC.CreateDeal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DealFromDomain(deal))
}

// Get retrieves a deal by ID.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deal ID", "")
		return
	}

	deal, err := h.dealUC.GetDeal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealFromDomain(deal))
}

// List lists a user's deals.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id query parameter", "")
		return
	}

	deals, err := h.dealUC.ListDeals(r.Context(), usecase.ListDealsInput{
		UserID: userID,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list deals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealsFromDomain(deals))
}

// MoveStage moves a deal to a new pipeline stage.
func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deal ID", "")
		return
	}

	var req dto.MoveDealStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deal, err := h.dealUC.MoveDealStage(r.Context(), id, domain.DealStage(req.Stage))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to move deal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealFromDomain(deal))
}
