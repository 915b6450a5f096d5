package domain

import (
	"testing"
)

func TestNormalizeLead(t *testing.T) {
	tests := []struct {
		name   string
		record LeadRecord
		want   NormalizedLead
	}{
		{
			name: "portuguese headers",
			record: LeadRecord{
				"empresa":  "Acme Ltda",
				"contato":  "Maria Silva",
				"email":    "maria@acme.com.br",
				"telefone": "+55 11 99999-0000",
				"cnpj":     "12.345.678/0001-90",
			},
			want: NormalizedLead{
				Company:     "Acme Ltda",
				ContactName: "Maria Silva",
				Email:       "maria@acme.com.br",
				Phone:       "+55 11 99999-0000",
				CNPJ:        "12.345.678/0001-90",
			},
		},
		{
			name: "english headers",
			record: LeadRecord{
				"company": "Acme Inc",
				"name":    "John Doe",
				"email":   "john@acme.com",
				"phone":   "+1 555 0100",
			},
			want: NormalizedLead{
				Company:     "Acme Inc",
				ContactName: "John Doe",
				Email:       "john@acme.com",
				Phone:       "+1 555 0100",
			},
		},
		{
			name: "portuguese wins over english when both present",
			record: LeadRecord{
				"empresa":  "Empresa BR",
				"company":  "Company EN",
				"contato":  "Contato BR",
				"name":     "Name EN",
				"telefone": "11 1111-1111",
				"phone":    "22 2222-2222",
			},
			want: NormalizedLead{
				Company:     "Empresa BR",
				ContactName: "Contato BR",
				Phone:       "11 1111-1111",
			},
		},
		{
			name: "empty synonym falls through to next",
			record: LeadRecord{
				"empresa": "",
				"company": "Fallback Co",
			},
			want: NormalizedLead{
				Company:     "Fallback Co",
				ContactName: PlaceholderContact,
			},
		},
		{
			name:   "missing required fields get placeholders",
			record: LeadRecord{"email": "lone@lead.com"},
			want: NormalizedLead{
				Company:     PlaceholderCompany,
				ContactName: PlaceholderContact,
				Email:       "lone@lead.com",
			},
		},
		{
			name:   "empty record",
			record: LeadRecord{},
			want: NormalizedLead{
				Company:     PlaceholderCompany,
				ContactName: PlaceholderContact,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLead(tt.record)
			if got != tt.want {
				t.Errorf("NormalizeLead() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateLead(t *testing.T) {
	tests := []struct {
		name       string
		record     LeadRecord
		wantIssues int
	}{
		{
			name:       "complete record",
			record:     LeadRecord{"empresa": "Acme", "contato": "Maria", "email": "m@acme.com"},
			wantIssues: 0,
		},
		{
			name:       "missing company and contact",
			record:     LeadRecord{"email": "m@acme.com"},
			wantIssues: 2,
		},
		{
			name:       "malformed email",
			record:     LeadRecord{"empresa": "Acme", "contato": "Maria", "email": "not-an-email"},
			wantIssues: 1,
		},
		{
			name:       "absent email is not an issue",
			record:     LeadRecord{"empresa": "Acme", "contato": "Maria"},
			wantIssues: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateLead(tt.record)
			if len(issues) != tt.wantIssues {
				t.Errorf("ValidateLead() returned %d issues %v, want %d", len(issues), issues, tt.wantIssues)
			}
		})
	}
}
