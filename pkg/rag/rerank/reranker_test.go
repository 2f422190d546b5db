package rerank

import (
	"testing"

	"advertiser-chatbot-be/pkg/rag/retriever"
)

func TestRerankPromotesLexicalMatch(t *testing.T) {
	r := NewLexicalReranker()

	chunks := []retriever.Chunk{
		{Content: "Grille des prix pour les campagnes display du site", Similarity: 0.62},
		{Content: "Les formats vidéo natifs disponibles sur nos canaux", Similarity: 0.60},
	}

	got := r.Rerank("quels formats vidéo proposez-vous", chunks)
	if got[0].Content != chunks[1].Content {
		t.Errorf("expected the formats/vidéo chunk first, got %q", got[0].Content)
	}
}

func TestRerankKeepsOrderWithoutOverlap(t *testing.T) {
	r := NewLexicalReranker()

	chunks := []retriever.Chunk{
		{Content: "Audience mensuelle du site", Similarity: 0.8},
		{Content: "Tarifs des bannières display", Similarity: 0.7},
	}

	got := r.Rerank("xyzabc", chunks)
	for i := range chunks {
		if got[i].Content != chunks[i].Content {
			t.Fatalf("order changed without lexical signal: %v", got)
		}
	}
}

func TestRerankSingleChunkUntouched(t *testing.T) {
	r := NewLexicalReranker()
	chunks := []retriever.Chunk{{Content: "seul", Similarity: 0.5}}
	if got := r.Rerank("question", chunks); len(got) != 1 {
		t.Fatal("single chunk should pass through")
	}
}
