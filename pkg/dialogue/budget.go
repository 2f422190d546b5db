package dialogue

import (
	"regexp"
	"strconv"
	"strings"
)

// BudgetTier is the qualified budget bracket of a prospect, in TND.
type BudgetTier string

const (
	TierUnder1000   BudgetTier = "<1000"
	Tier1000To3000  BudgetTier = "1000-3000"
	Tier3000To10000 BudgetTier = "3000-10000"
	TierOver10000   BudgetTier = ">10000"
	TierUnknown     BudgetTier = "unknown"
)

// recommendations maps each known tier to its deterministic bundle copy.
// No model judgment is involved: the mapping is the whole business rule.
var recommendations = map[BudgetTier]string{
	TierUnder1000: "Avec un budget de moins de 1 000 TND, nous recommandons un " +
		"article sponsorisé ou un communiqué, accompagné d'un petit format display " +
		"sur une courte durée. C'est le meilleur moyen de tester notre audience.",
	Tier1000To3000: "Entre 1 000 et 3 000 TND, le mini-pack bannières est idéal : " +
		"un pack display d'entrée de gamme, un article sponsorisé et un relais sur " +
		"nos réseaux sociaux.",
	Tier3000To10000: "Entre 3 000 et 10 000 TND, nous proposons le pack complet : " +
		"display multi-format, contenu éditorial dédié, avec en option un volet " +
		"audio ou une présence dans notre newsletter.",
	TierOver10000: "Au-delà de 10 000 TND, nous construisons un plan média sur " +
		"mesure ou un partenariat : Pack Innovation, formats vidéo et dispositifs " +
		"événementiels inclus.",
}

// RecommendationFor returns the bundle copy for a tier. The boolean is false
// for TierUnknown (and any unrecognized value): those cases escalate to the
// custom advisory path instead of receiving a canned bundle.
func RecommendationFor(tier BudgetTier) (string, bool) {
	msg, ok := recommendations[tier]
	return msg, ok
}

var tierAmountRe = regexp.MustCompile(`\d[\d\s.,]*`)

// ParseTier maps a free-text budget answer to a tier, best effort.
// "entre 3 000 et 10 000" resolves on the upper bound; "moins de" and
// "plus de" nudge the amount across the boundary it names.
func ParseTier(text string) (BudgetTier, bool) {
	lowered := strings.ToLower(text)

	if strings.Contains(lowered, "sais pas") ||
		strings.Contains(lowered, "aucune idée") ||
		strings.Contains(lowered, "pas encore") {
		return TierUnknown, true
	}

	amount := -1
	for _, match := range tierAmountRe.FindAllString(lowered, -1) {
		var digits strings.Builder
		for _, r := range match {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			continue
		}
		if n > amount {
			amount = n
		}
	}
	if amount < 0 {
		return "", false
	}

	if strings.Contains(lowered, "moins") {
		amount--
	}
	if strings.Contains(lowered, "plus") {
		amount++
	}

	switch {
	case amount < 1000:
		return TierUnder1000, true
	case amount <= 3000:
		return Tier1000To3000, true
	case amount <= 10000:
		return Tier3000To10000, true
	default:
		return TierOver10000, true
	}
}

// ValidTier reports whether tier is one of the enumerated brackets.
func ValidTier(tier BudgetTier) bool {
	if tier == TierUnknown {
		return true
	}
	_, ok := recommendations[tier]
	return ok
}
