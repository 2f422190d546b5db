package prompt

import (
	"strings"

	"advertiser-chatbot-be/pkg/llm"
	"advertiser-chatbot-be/pkg/rag/retriever"
	"advertiser-chatbot-be/pkg/utils"
)

// scopeSegment pins the assistant to the advertiser offer. It is part of
// every prompt and is never truncated, whatever the token budget.
const scopeSegment = "Tu es l'assistant commercial de Tunisie Numérique, premier média " +
	"d'information en Tunisie. Tu t'adresses exclusivement à des annonceurs et " +
	"partenaires potentiels. Tu réponds en français, de façon brève et " +
	"professionnelle. Tu ne parles que de l'offre annonceurs : audience, " +
	"solutions publicitaires, formats, tarifs, Immoneuf, offre premium, " +
	"partenariats. Tu ne réponds jamais à des questions de lecteurs ni à des " +
	"sujets d'actualité."

const factualSegment = "Réponds uniquement à partir des extraits fournis dans " +
	"<reference_material>. Si l'information demandée n'y figure pas, dis-le " +
	"honnêtement et propose un rappel par l'équipe commerciale. N'invente " +
	"aucun chiffre, aucun tarif, aucun format."

// Composer assembles the chat history sent to the model, under a token
// budget. When the budget overflows, oldest history goes first, then the
// least relevant chunks. The scope segment and the user question always
// survive.
type Composer struct {
	budget int
}

type Input struct {
	Step        string
	Slots       map[string]string
	Chunks      []retriever.Chunk
	History     []llm.Message
	Query       string
	FactualOnly bool
}

func NewComposer(budgetTokens int) *Composer {
	if budgetTokens <= 0 {
		budgetTokens = 2048
	}
	return &Composer{budget: budgetTokens}
}

func (c *Composer) Compose(in Input) []llm.Message {
	system := c.buildSystem(in)

	fixed := utils.EstimateTokens(system) + utils.EstimateTokens(in.Query)
	remaining := c.budget - fixed

	history := in.History
	chunks := in.Chunks
	for cost(history, chunks) > remaining && len(history) > 0 {
		history = history[1:] // Drop oldest first
	}
	for cost(history, chunks) > remaining && len(chunks) > 0 {
		chunks = chunks[:len(chunks)-1] // Then least relevant chunk
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	if context := c.buildContext(in, chunks); context != "" {
		messages = append(messages, llm.Message{Role: "system", Content: context})
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: in.Query})
	return messages
}

func (c *Composer) buildSystem(in Input) string {
	var b strings.Builder
	b.WriteString(scopeSegment)
	if in.FactualOnly || len(in.Chunks) > 0 {
		b.WriteString("\n\n")
		b.WriteString(factualSegment)
	}
	return b.String()
}

func (c *Composer) buildContext(in Input, chunks []retriever.Chunk) string {
	var b strings.Builder

	c.writeReferenceMaterial(&b, chunks)
	c.writeProspectProfile(&b, in)

	return strings.TrimSpace(b.String())
}

func (c *Composer) writeReferenceMaterial(b *strings.Builder, chunks []retriever.Chunk) {
	if len(chunks) == 0 {
		return
	}

	b.WriteString("<reference_material>\n")
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(chunk.Content)
	}
	b.WriteString("\n</reference_material>\n\n")
}

func (c *Composer) writeProspectProfile(b *strings.Builder, in Input) {
	if in.Step == "" && len(in.Slots) == 0 {
		return
	}

	b.WriteString("<prospect_profile>\n")
	if in.Step != "" {
		b.WriteString("etape: ")
		b.WriteString(in.Step)
		b.WriteString("\n")
	}
	for _, name := range []string{"company", "sector", "budget_tier", "need_type", "entry_path"} {
		if v, ok := in.Slots[name]; ok && v != "" {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	b.WriteString("</prospect_profile>\n\n")
}

func cost(history []llm.Message, chunks []retriever.Chunk) int {
	total := 0
	for _, m := range history {
		total += utils.EstimateTokens(m.Content)
	}
	for _, c := range chunks {
		total += utils.EstimateTokens(c.Content)
	}
	return total
}
