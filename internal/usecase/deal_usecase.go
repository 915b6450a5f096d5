package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/infrastructure/metrics"
)

// Defaults applied to deals materialized from imported leads.
const (
	importedLeadNotes     = "Lead imported automatically. Source: bulk import"
	importedLeadCloseDays = 30
)

// DealUseCase handles CRM deal business logic. It also implements the
// DealSink consumed by the import pipeline.
type DealUseCase struct {
	deals    DealRepository
	idGen    IDGenerator
	notifier Notifier
	metrics  *metrics.Metrics
}

// NewDealUseCase creates a new DealUseCase. notifier and m may be nil.
func NewDealUseCase(deals DealRepository, idGen IDGenerator, notifier Notifier, m *metrics.Metrics) *DealUseCase {
	return &DealUseCase{
		deals:    deals,
		idGen:    idGen,
		notifier: notifier,
		metrics:  m,
	}
}

// CreateFromLead materializes a deal from a normalized lead row. A lead
// carrying a malformed email is rejected per-row; the pipeline records the
// rejection and moves on.
func (uc *DealUseCase) CreateFromLead(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error) {
	if lead.Email != "" {
		if err := domain.ValidateEmail(lead.Email); err != nil {
			return nil, &domain.RecordValidationError{Field: "email", Message: lead.Email}
		}
	}

	now := time.Now().UTC()

	deal := &domain.Deal{
		ID:                uc.idGen.Generate(),
		UserID:            userID,
		Company:           lead.Company,
		ContactName:       lead.ContactName,
		ContactEmail:      lead.Email,
		ContactPhone:      lead.Phone,
		CNPJ:              lead.CNPJ,
		Value:             decimal.Zero,
		ExpectedCloseDate: now.AddDate(0, 0, importedLeadCloseDays),
		Stage:             domain.StageProposalSent,
		Notes:             importedLeadNotes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.deals.Create(ctx, deal); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DealsCreated.Inc()
	}
	uc.notifyCreated(ctx, deal)

	return deal, nil
}

// CreateDealInput represents input for creating a deal directly.
type CreateDealInput struct {
	UserID            string
	Company           string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	CNPJ              string
	Value             decimal.Decimal
	ExpectedCloseDate time.Time
	Stage             domain.DealStage
	Notes             string
}

// CreateDeal creates a deal from explicit input.
func (uc *DealUseCase) CreateDeal(ctx context.Context, input CreateDealInput) (*domain.Deal, error) {
	if input.Stage == "" {
		input.Stage = domain.StageProposalSent
	}
	if !input.Stage.IsValid() {
		return nil, domain.ErrInvalidStage
	}
	if input.ContactEmail != "" {
		if err := domain.ValidateEmail(input.ContactEmail); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	deal := &domain.Deal{
		ID:                uc.idGen.Generate(),
		UserID:            input.UserID,
		Company:           input.Company,
		ContactName:       input.ContactName,
		ContactEmail:      input.ContactEmail,
		ContactPhone:      input.ContactPhone,
		CNPJ:              input.CNPJ,
		Value:             input.Value,
		ExpectedCloseDate: input.ExpectedCloseDate,
		Stage:             input.Stage,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.deals.Create(ctx, deal); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DealsCreated.Inc()
	}
	uc.notifyCreated(ctx, deal)

	return deal, nil
}

// GetDeal retrieves a deal by ID.
func (uc *DealUseCase) GetDeal(ctx context.Context, id string) (*domain.Deal, error) {
	return uc.deals.GetByID(ctx, id)
}

// ListDealsInput represents input for listing a user's deals.
type ListDealsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListDeals lists a user's deals, most recent first.
func (uc *DealUseCase) ListDeals(ctx context.Context, input ListDealsInput) ([]*domain.Deal, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.deals.ListByUser(ctx, input.UserID, limit, offset)
}

// MoveDealStage moves a deal to a new pipeline stage. Moving to a closed
// stage stamps ClosedAt.
func (uc *DealUseCase) MoveDealStage(ctx context.Context, id string, stage domain.DealStage) (*domain.Deal, error) {
	if !stage.IsValid() {
		return nil, domain.ErrInvalidStage
	}

	deal, err := uc.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var closedAt *time.Time
	if stage.IsClosed() {
		closedAt = &now
	}

	if err := uc.deals.UpdateStage(ctx, id, stage, closedAt, now); err != nil {
		return nil, err
	}

	deal.Stage = stage
	deal.ClosedAt = closedAt
	deal.UpdatedAt = now

	return deal, nil
}

func (uc *DealUseCase) notifyCreated(ctx context.Context, deal *domain.Deal) {
	if uc.notifier == nil {
		return
	}

	_ = uc.notifier.Publish(ctx, domain.ChangeEvent{
		Type:   domain.EventDealCreated,
		UserID: deal.UserID,
		Payload: map[string]any{
			"deal_id": deal.ID,
			"company": deal.Company,
			"stage":   string(deal.Stage),
		},
		OccurredAt: deal.CreatedAt,
	})
}
