package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
	"github.com/leadforge/backend/internal/usecase/mocks"
)

func newDealFixture() (*usecase.DealUseCase, *mocks.MockDealRepository, *mocks.MockNotifier) {
	dealRepo := mocks.NewMockDealRepository()
	notifier := mocks.NewMockNotifier()
	uc := usecase.NewDealUseCase(dealRepo, mocks.NewMockIDGenerator(), notifier, nil)
	return uc, dealRepo, notifier
}

func TestDealUseCase_CreateFromLead(t *testing.T) {
	uc, dealRepo, notifier := newDealFixture()

	lead := domain.NormalizedLead{
		Company:     "Acme Ltda",
		ContactName: "Maria Silva",
		Email:       "maria@acme.com.br",
		Phone:       "+55 11 99999-0000",
		CNPJ:        "12.345.678/0001-90",
	}

	before := time.Now().UTC()
	deal, err := uc.CreateFromLead(context.Background(), "user-1", lead)
	if err != nil {
		t.Fatalf("CreateFromLead: %v", err)
	}

	if deal.Stage != domain.StageProposalSent {
		t.Errorf("Stage = %q, want %q", deal.Stage, domain.StageProposalSent)
	}
	if !deal.Value.Equal(decimal.Zero) {
		t.Errorf("Value = %s, want 0", deal.Value)
	}
	if deal.Company != lead.Company || deal.ContactName != lead.ContactName {
		t.Errorf("lead fields not carried over: %+v", deal)
	}

	// Expected close is thirty days out.
	wantClose := before.AddDate(0, 0, 30)
	if deal.ExpectedCloseDate.Before(wantClose.Add(-time.Minute)) ||
		deal.ExpectedCloseDate.After(wantClose.Add(time.Minute)) {
		t.Errorf("ExpectedCloseDate = %v, want about %v", deal.ExpectedCloseDate, wantClose)
	}

	if dealRepo.Count() != 1 {
		t.Errorf("deals stored = %d, want 1", dealRepo.Count())
	}
	if events := notifier.Events(); len(events) != 1 || events[0].Type != domain.EventDealCreated {
		t.Errorf("expected one deal.created event, got %v", events)
	}
}

func TestDealUseCase_CreateFromLead_RejectsBadEmail(t *testing.T) {
	uc, dealRepo, _ := newDealFixture()

	_, err := uc.CreateFromLead(context.Background(), "user-1", domain.NormalizedLead{
		Company:     "Acme",
		ContactName: "Maria",
		Email:       "not-an-email",
	})

	var rvErr *domain.RecordValidationError
	if !errors.As(err, &rvErr) {
		t.Fatalf("expected *RecordValidationError, got %v", err)
	}
	if rvErr.Field != "email" {
		t.Errorf("Field = %q, want email", rvErr.Field)
	}
	if dealRepo.Count() != 0 {
		t.Errorf("expected no deal stored, got %d", dealRepo.Count())
	}
}

func TestDealUseCase_CreateDeal(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateDealInput
		expectError bool
		errorType   error
		wantStage   domain.DealStage
	}{
		{
			name: "explicit stage",
			input: usecase.CreateDealInput{
				UserID:  "user-1",
				Company: "Acme",
				Stage:   domain.StageNegotiation,
				Value:   decimal.NewFromInt(5000),
			},
			wantStage: domain.StageNegotiation,
		},
		{
			name: "defaults to proposal sent",
			input: usecase.CreateDealInput{
				UserID:  "user-1",
				Company: "Acme",
			},
			wantStage: domain.StageProposalSent,
		},
		{
			name: "reject unknown stage",
			input: usecase.CreateDealInput{
				UserID:  "user-1",
				Company: "Acme",
				Stage:   domain.DealStage("archived"),
			},
			expectError: true,
			errorType:   domain.ErrInvalidStage,
		},
		{
			name: "reject malformed contact email",
			input: usecase.CreateDealInput{
				UserID:       "user-1",
				Company:      "Acme",
				ContactEmail: "nope",
			},
			expectError: true,
			errorType:   domain.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newDealFixture()

			deal, err := uc.CreateDeal(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if deal.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", deal.Stage, tt.wantStage)
			}
		})
	}
}

func TestDealUseCase_MoveDealStage(t *testing.T) {
	uc, _, _ := newDealFixture()
	ctx := context.Background()

	deal, err := uc.CreateDeal(ctx, usecase.CreateDealInput{UserID: "user-1", Company: "Acme"})
	if err != nil {
		t.Fatalf("CreateDeal: %v", err)
	}

	moved, err := uc.MoveDealStage(ctx, deal.ID, domain.StageNegotiation)
	if err != nil {
		t.Fatalf("MoveDealStage: %v", err)
	}
	if moved.Stage != domain.StageNegotiation {
		t.Errorf("Stage = %q, want negotiation", moved.Stage)
	}
	if moved.ClosedAt != nil {
		t.Error("expected open deal to have nil ClosedAt")
	}

	won, err := uc.MoveDealStage(ctx, deal.ID, domain.StageWon)
	if err != nil {
		t.Fatalf("MoveDealStage: %v", err)
	}
	if won.ClosedAt == nil {
		t.Error("expected won deal to have ClosedAt stamped")
	}

	if _, err := uc.MoveDealStage(ctx, deal.ID, domain.DealStage("bogus")); !errors.Is(err, domain.ErrInvalidStage) {
		t.Errorf("expected ErrInvalidStage, got %v", err)
	}
	if _, err := uc.MoveDealStage(ctx, "missing", domain.StageWon); !errors.Is(err, domain.ErrDealNotFound) {
		t.Errorf("expected ErrDealNotFound, got %v", err)
	}
}
