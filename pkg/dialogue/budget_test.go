package dialogue

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTier BudgetTier
		wantOk   bool
	}{
		{"plain amount", "2000 TND", Tier1000To3000, true},
		{"spaced thousands", "environ 5 000 dinars", Tier3000To10000, true},
		{"below threshold", "800", TierUnder1000, true},
		{"less-than phrasing", "moins de 1000", TierUnder1000, true},
		{"more-than phrasing", "plus de 10 000", TierOver10000, true},
		{"range keeps upper bound", "entre 3 000 et 10 000", Tier3000To10000, true},
		{"unknown phrasing", "je ne sais pas encore", TierUnknown, true},
		{"no idea phrasing", "aucune idée pour le moment", TierUnknown, true},
		{"no amount", "un budget raisonnable", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := ParseTier(tt.text)
			if ok != tt.wantOk {
				t.Fatalf("ParseTier(%q) ok = %v, want %v", tt.text, ok, tt.wantOk)
			}
			if tier != tt.wantTier {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.text, tier, tt.wantTier)
			}
		})
	}
}

func TestRecommendationFor(t *testing.T) {
	for _, tier := range []BudgetTier{TierUnder1000, Tier1000To3000, Tier3000To10000, TierOver10000} {
		msg, ok := RecommendationFor(tier)
		if !ok || msg == "" {
			t.Errorf("RecommendationFor(%q) = %q, %v", tier, msg, ok)
		}
	}

	if _, ok := RecommendationFor(TierUnknown); ok {
		t.Error("TierUnknown should not have a canned recommendation")
	}
	if _, ok := RecommendationFor("50-100"); ok {
		t.Error("unrecognized tier should not have a recommendation")
	}
}

func TestValidTier(t *testing.T) {
	for _, tier := range []BudgetTier{TierUnder1000, Tier1000To3000, Tier3000To10000, TierOver10000, TierUnknown} {
		if !ValidTier(tier) {
			t.Errorf("ValidTier(%q) = false", tier)
		}
	}
	if ValidTier("") || ValidTier("beaucoup") {
		t.Error("invalid tiers accepted")
	}
}
