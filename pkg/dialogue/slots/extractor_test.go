package slots

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
		want     map[string]string
	}{
		{
			name:     "email and phone together",
			text:     "contact@acme.tn ou +216 22 555 123",
			expected: []string{NameEmail, NamePhone},
			want: map[string]string{
				NameEmail: "contact@acme.tn",
				NamePhone: "+216 22 555 123",
			},
		},
		{
			name:     "company alone",
			text:     "Meubles Karim",
			expected: []string{NameCompany, NameEmail, NamePhone},
			want:     map[string]string{NameCompany: "Meubles Karim"},
		},
		{
			name:     "company next to email",
			text:     "Acme Studio, acme@studio.tn",
			expected: []string{NameCompany, NameEmail},
			want: map[string]string{
				NameCompany: "Acme Studio",
				NameEmail:   "acme@studio.tn",
			},
		},
		{
			name:     "sector from keyword",
			text:     "nous sommes une agence de communication",
			expected: []string{NameSector},
			want:     map[string]string{NameSector: "agency"},
		},
		{
			name:     "first listed keyword wins on double match",
			text:     "une agence pour notre entreprise",
			expected: []string{NameSector},
			want:     map[string]string{NameSector: "agency"},
		},
		{
			name:     "nothing expected nothing returned",
			text:     "contact@acme.tn",
			expected: nil,
			want:     map[string]string{},
		},
		{
			name:     "empty input",
			text:     "   ",
			expected: []string{NameEmail, NameCompany},
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, tt.expected)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for name, value := range tt.want {
				if got[name] != value {
					t.Errorf("slot %s = %q, want %q", name, got[name], value)
				}
			}
		})
	}
}

func TestExtractNeverFails(t *testing.T) {
	// Garbage in, empty map out. No slot means no extraction, never an error.
	inputs := []string{
		"@@@@",
		"je ne veux pas donner mes coordonnées",
		"un très long message qui raconte toute l'histoire de l'entreprise depuis sa création en 1995 avec beaucoup de détails inutiles pour un nom de société",
	}
	for _, text := range inputs {
		got := Extract(text, []string{NameCompany, NameEmail, NamePhone})
		if _, ok := got[NameEmail]; ok {
			t.Errorf("Extract(%q) invented an email", text)
		}
	}
}

func TestExtractMessagePassthrough(t *testing.T) {
	got := Extract("je cherche un devis pour mars", []string{NameMessage})
	if got[NameMessage] != "je cherche un devis pour mars" {
		t.Errorf("message = %q", got[NameMessage])
	}
}
