package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStage is the pipeline stage of a CRM deal.
type DealStage string

const (
	StageProposalSent DealStage = "proposal_sent"
	StageNegotiation  DealStage = "negotiation"
	StageWon          DealStage = "won"
	StageLost         DealStage = "lost"
)

var validStages = map[DealStage]bool{
	StageProposalSent: true,
	StageNegotiation:  true,
	StageWon:          true,
	StageLost:         true,
}

// IsValid checks if the stage is a known stage.
func (s DealStage) IsValid() bool {
	return validStages[s]
}

// IsClosed reports whether the stage terminates the deal.
func (s DealStage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

// Deal is a CRM business record. Each successfully imported lead row
// materializes exactly one deal.
type Deal struct {
	ID                string
	UserID            string
	Company           string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	CNPJ              string
	Value             decimal.Decimal
	ExpectedCloseDate time.Time
	Stage             DealStage
	Notes             string
	LeadID            string
	ClosedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
