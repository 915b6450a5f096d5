package domain

// LeadRecord is one raw row from an uploaded batch, keyed by the column
// names the file actually used. Imports accept Portuguese or English
// headers; NormalizeLead resolves the synonyms.
type LeadRecord map[string]string

// Accepted synonyms per normalized field, in precedence order: the first
// key present with a non-empty value wins.
var (
	companyFields = []string{"empresa", "company"}
	contactFields = []string{"contato", "name"}
	phoneFields   = []string{"telefone", "phone"}
	emailFields   = []string{"email"}
	cnpjFields    = []string{"cnpj"}
)

// Placeholder values substituted for missing required fields.
const (
	PlaceholderCompany = "Company not provided"
	PlaceholderContact = "Contact not provided"
)

// NormalizedLead is a lead row after synonym resolution.
type NormalizedLead struct {
	Company     string
	ContactName string
	Email       string
	Phone       string
	CNPJ        string
}

// NormalizeLead maps a raw record onto the normalized shape. Missing
// company and contact fields become deterministic placeholders; missing
// email and phone become empty strings.
func NormalizeLead(record LeadRecord) NormalizedLead {
	lead := NormalizedLead{
		Company:     firstField(record, companyFields),
		ContactName: firstField(record, contactFields),
		Email:       firstField(record, emailFields),
		Phone:       firstField(record, phoneFields),
		CNPJ:        firstField(record, cnpjFields),
	}

	if lead.Company == "" {
		lead.Company = PlaceholderCompany
	}
	if lead.ContactName == "" {
		lead.ContactName = PlaceholderContact
	}

	return lead
}

func firstField(record LeadRecord, keys []string) string {
	for _, key := range keys {
		if v, ok := record[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// ValidateLead reports problems with a raw record before import. It is a
// pre-flight check only; the pipeline itself substitutes placeholders
// rather than rejecting rows.
func ValidateLead(record LeadRecord) []string {
	var issues []string

	if firstField(record, companyFields) == "" {
		issues = append(issues, "company name is required")
	}
	if firstField(record, contactFields) == "" {
		issues = append(issues, "contact name is required")
	}
	if email := firstField(record, emailFields); email != "" {
		if err := ValidateEmail(email); err != nil {
			issues = append(issues, "invalid email format")
		}
	}

	return issues
}
