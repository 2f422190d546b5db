package llm

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain text untouched",
			raw:  "Tunisie Numérique touche 8 millions de visites par mois.",
			want: "Tunisie Numérique touche 8 millions de visites par mois.",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  Bonjour  \n",
			want: "Bonjour",
		},
		{
			name: "code fence stripped",
			raw:  "```\nBonjour, voici nos formats.\n```",
			want: "Bonjour, voici nos formats.",
		},
		{
			name: "fence language tag dropped",
			raw:  "```markdown\nNos offres display démarrent à 800 TND.\n```",
			want: "Nos offres display démarrent à 800 TND.",
		},
		{
			name: "json wrapper unwrapped",
			raw:  `{"assistant_message": "Le Pack Innovation regroupe les formats interactifs."}`,
			want: "Le Pack Innovation regroupe les formats interactifs.",
		},
		{
			name: "json without the message field kept as is",
			raw:  `{"note": "pas de réponse ici"}`,
			want: `{"note": "pas de réponse ici"}`,
		},
		{
			name: "invalid json kept as is",
			raw:  "{pas du json",
			want: "{pas du json",
		},
		{
			name: "empty input",
			raw:  "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.raw); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
