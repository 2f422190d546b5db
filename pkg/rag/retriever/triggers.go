package retriever

import "strings"

// ragIntents are the topics whose questions are answered from the knowledge
// base. Anything else inside the funnel is conversational and goes straight
// to generation.
var ragIntents = []string{
	"audience", "offres", "formats", "immoneuf", "premium", "mag", "innovation",
	"partenariat",
}

// keywordFallbacks catch singular and adjacent spellings the intent list
// misses.
var keywordFallbacks = []string{
	"offre", "format", "tarif", "tarifs", "prix", "chiffre", "chiffres",
	"visite", "visites", "statistique", "statistiques", "display",
	"sponsoris", "bannière", "bannières", "partenaire", "partenaires",
}

// ShouldTrigger reports whether a free question needs knowledge retrieval
// before generation.
func ShouldTrigger(text string) bool {
	lowered := strings.ToLower(text)
	for _, intent := range ragIntents {
		if strings.Contains(lowered, intent) {
			return true
		}
	}
	for _, kw := range keywordFallbacks {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
