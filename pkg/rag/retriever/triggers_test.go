package retriever

import "testing"

func TestShouldTrigger(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"quelle est votre audience mensuelle ?", true},
		{"quels formats display proposez-vous ?", true},
		{"parlez-moi de l'offre premium", true},
		{"combien coûte une bannière ?", true},
		{"c'est quoi immoneuf ?", true},
		{"quelles sont les conditions de partenariat ?", true},
		{"comment devenir partenaire de votre média ?", true},
		{"merci beaucoup", false},
		{"oui je suis d'accord", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ShouldTrigger(tt.text); got != tt.want {
			t.Errorf("ShouldTrigger(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
