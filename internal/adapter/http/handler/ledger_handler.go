package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadforge/backend/internal/adapter/http/dto"
	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Credit(ctx context.Context, input usecase.CreditInput) (*domain.CreditTransaction, error)
	Debit(ctx context.Context, input usecase.DebitInput) (*domain.CreditTransaction, error)
	History(ctx context.Context, input usecase.HistoryInput) ([]*domain.CreditTransaction, error)
	AllHistory(ctx context.Context, limit, offset int) ([]*domain.CreditTransaction, error)
	VerifyAccount(ctx context.Context, userID string) error
}

// LedgerHandler handles credit-ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// GetBalance returns an account's current balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	credits, err := h.ledgerUC.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{UserID: userID, Credits: credits})
}

// AddCredits credits an account.
func (h *LedgerHandler) AddCredits(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.Credit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add credits", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// DeductCredits debits an account.
func (h *LedgerHandler) DeductCredits(w http.ResponseWriter, r *http.Request) {
	var req dto.DeductCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.Debit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deduct credits", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// ListTransactions lists one account's transactions, most recent first.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.ledgerUC.History(r.Context(), usecase.HistoryInput{
		UserID: userID,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// ListAllTransactions lists transactions across all accounts.
func (h *LedgerHandler) ListAllTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.ledgerUC.AllHistory(r.Context(),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Verify replays an account's transaction log against its balance.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	err := h.ledgerUC.VerifyAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrLedgerDrift) {
			writeJSON(w, http.StatusOK, dto.VerifyResponse{
				UserID:     userID,
				Consistent: false,
				Detail:     err.Error(),
			})
			return
		}
		writeError(w, mapDomainError(err), "failed to verify account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyResponse{UserID: userID, Consistent: true})
}
