package domain

import (
	"errors"
	"fmt"
)

var (
	// Ledger errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrContention          = errors.New("too many concurrent updates, retry the operation")

	// Import errors
	ErrImportJobNotFound = errors.New("import job not found")
	ErrEmptyImportBatch  = errors.New("import batch has no records")

	// Deal errors
	ErrDealNotFound = errors.New("deal not found")
	ErrInvalidStage = errors.New("invalid deal stage")
)

// InsufficientCreditsError carries the required vs. available amounts of a
// failed pre-authorization or debit. errors.Is matches ErrInsufficientCredits.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// RecordValidationError is a per-row failure surfaced by deal creation.
// It is recovered by the import pipeline and recorded, never propagated.
type RecordValidationError struct {
	Field   string
	Message string
}

func (e *RecordValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
