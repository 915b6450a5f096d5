package usecase

const (
	// ImportDebitAmount is the number of credits one imported row costs.
	ImportDebitAmount = 1

	// ImportReasonPrefix prefixes the debit reason for imported rows.
	ImportReasonPrefix = "import:"

	// DefaultImportFileName is recorded when the caller supplies no name.
	DefaultImportFileName = "leads_import.csv"
)
