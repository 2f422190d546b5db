package guardrail

import "strings"

// Scope is the verdict of the pre-generation guardrail.
type Scope string

const (
	ScopeIn  Scope = "IN_SCOPE"
	ScopeOut Scope = "OUT_OF_SCOPE"
)

// Classification carries the verdict plus the answer policy that goes with it.
// FactualOnly marks ambiguous input: answered, but only with retrieved facts.
type Classification struct {
	Scope       Scope
	FactualOnly bool
}

// Classifier decides whether a free-text message belongs to the advertiser
// funnel. It is a rule and keyword check, deliberately not a model call:
// it must be fast, auditable, and immune to prompt content arguing with it.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// advertiserKeywords mark a message as advertiser business.
// Checked before readerKeywords: a reader word next to an advertiser word
// ("votre article sponsorisé") is still advertiser business.
var advertiserKeywords = []string{
	"publicité", "publicitaire", "pub ", "annonceur", "annonce",
	"campagne", "budget", "audience", "offre", "format", "tarif", "prix",
	"sponsoris", "bannière", "display", "partenariat", "partenaire",
	"immoneuf", "premium", "innovation", "mag", "communiqué", "visibilité",
	"marque", "devis", "média",
}

// readerKeywords mark reader-side intents: feedback on articles, editorial
// suggestions, subscription issues. Those are redirected, never answered.
var readerKeywords = []string{
	"article", "avis", "commentaire", "rédaction", "journaliste",
	"lecteur", "abonnement", "newsletter", "erreur dans", "correction",
}

// factualTokens flag questions that expect a fact-bearing answer.
var factualTokens = []string{
	"quel", "quelle", "quels", "quelles", "combien", "liste",
	"exemple", "exemples", "prix", "tarif", "formats",
}

// callbackKeywords detect a request to be called back, honored from any step.
var callbackKeywords = []string{
	"rappel", "rappeler", "rappelez", "rappelle", "appelez-moi",
}

// Classify returns the scope verdict for a free-text message.
// Ambiguous messages default to in-scope with a factual-only answer policy:
// a missed lead costs more than one irrelevant answer.
func (c *Classifier) Classify(text string) Classification {
	lowered := strings.ToLower(text)

	for _, kw := range advertiserKeywords {
		if strings.Contains(lowered, kw) {
			return Classification{Scope: ScopeIn}
		}
	}

	for _, kw := range readerKeywords {
		if strings.Contains(lowered, kw) {
			return Classification{Scope: ScopeOut}
		}
	}

	return Classification{Scope: ScopeIn, FactualOnly: true}
}

// IsCallbackRequest reports whether the message asks to be called back.
func (c *Classifier) IsCallbackRequest(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range callbackKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// IsFactualQuestion reports whether the message expects a factual answer.
func (c *Classifier) IsFactualQuestion(text string) bool {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "?") {
		return true
	}
	for _, token := range factualTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
