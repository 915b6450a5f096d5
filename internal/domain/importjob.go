package domain

import "time"

// ImportStatus is the lifecycle state of an import job.
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
)

// MaxPersistedImportErrors bounds the error list stored on the job record.
// The full list is still returned to the immediate caller.
const MaxPersistedImportErrors = 10

// ImportError describes one failed row of an import batch. RawData carries
// the original record so callers can resubmit failed rows.
type ImportError struct {
	Row     int        `json:"row"`
	RawData LeadRecord `json:"raw_data"`
	Message string     `json:"message"`
}

// ImportJob is the persisted summary of one bulk-import run. It is created
// in processing state before any record is touched and transitions exactly
// once to completed. Once completed, SuccessCount+ErrorCount == TotalRecords.
type ImportJob struct {
	ID           string
	UserID       string
	FileName     string
	TotalRecords int
	Status       ImportStatus
	SuccessCount int
	ErrorCount   int
	Errors       []ImportError
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// BoundErrors returns at most MaxPersistedImportErrors entries for storage.
func BoundErrors(errs []ImportError) []ImportError {
	if len(errs) > MaxPersistedImportErrors {
		return errs[:MaxPersistedImportErrors]
	}
	return errs
}
