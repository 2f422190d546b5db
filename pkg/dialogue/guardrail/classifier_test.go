package guardrail

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name            string
		text            string
		wantScope       Scope
		wantFactualOnly bool
	}{
		{"advertiser question", "quels sont vos tarifs publicitaires ?", ScopeIn, false},
		{"campaign intent", "je veux lancer une campagne pour ma marque", ScopeIn, false},
		{"reader feedback", "il y a une erreur dans votre article sur le match", ScopeOut, false},
		{"editorial request", "je voudrais contacter un journaliste de la rédaction", ScopeOut, false},
		{"subscription issue", "je n'arrive pas à gérer mon abonnement", ScopeOut, false},
		{"ambiguous greeting", "bonjour, j'ai une question", ScopeIn, true},
		{"ambiguous request", "pouvez-vous m'aider ?", ScopeIn, true},
		{"advertiser beats reader word", "combien coûte un article sponsorisé ?", ScopeIn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Scope != tt.wantScope {
				t.Errorf("Classify(%q).Scope = %s, want %s", tt.text, got.Scope, tt.wantScope)
			}
			if got.FactualOnly != tt.wantFactualOnly {
				t.Errorf("Classify(%q).FactualOnly = %v, want %v", tt.text, got.FactualOnly, tt.wantFactualOnly)
			}
		})
	}
}

func TestIsCallbackRequest(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text string
		want bool
	}{
		{"pouvez-vous me rappeler ?", true},
		{"je préfère un rappel téléphonique", true},
		{"appelez-moi demain matin", true},
		{"quels sont vos formats display ?", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := c.IsCallbackRequest(tt.text); got != tt.want {
			t.Errorf("IsCallbackRequest(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsFactualQuestion(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text string
		want bool
	}{
		{"combien de visiteurs par mois ?", true},
		{"quelle est la répartition de votre audience", true},
		{"donnez-moi des exemples de campagnes", true},
		{"je veux en savoir plus", false},
	}

	for _, tt := range tests {
		if got := c.IsFactualQuestion(tt.text); got != tt.want {
			t.Errorf("IsFactualQuestion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
