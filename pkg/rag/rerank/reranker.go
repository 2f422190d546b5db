package rerank

import (
	"sort"
	"strings"

	"advertiser-chatbot-be/pkg/rag/retriever"
)

// LexicalReranker nudges chunks sharing literal terms with the query ahead
// of chunks that only match in embedding space. It blends the vector
// similarity with word overlap; no extra model call is involved.
type LexicalReranker struct {
	// OverlapWeight scales the lexical component relative to the vector
	// similarity. Zero disables reranking.
	OverlapWeight float64
}

func NewLexicalReranker() *LexicalReranker {
	return &LexicalReranker{OverlapWeight: 0.3}
}

func (r *LexicalReranker) Rerank(query string, chunks []retriever.Chunk) []retriever.Chunk {
	if len(chunks) < 2 || r.OverlapWeight == 0 {
		return chunks
	}

	queryTerms := termSet(query)
	if len(queryTerms) == 0 {
		return chunks
	}

	type scored struct {
		chunk retriever.Chunk
		score float64
	}
	rescored := make([]scored, len(chunks))
	for i, c := range chunks {
		rescored[i] = scored{
			chunk: c,
			score: c.Similarity + r.OverlapWeight*overlap(queryTerms, c.Content),
		}
	}

	sort.SliceStable(rescored, func(i, j int) bool {
		return rescored[i].score > rescored[j].score
	})

	result := make([]retriever.Chunk, len(rescored))
	for i, s := range rescored {
		result[i] = s.chunk
	}
	return result
}

// overlap returns the share of query terms found in the chunk content.
func overlap(queryTerms map[string]bool, content string) float64 {
	contentTerms := termSet(content)
	matched := 0
	for term := range queryTerms {
		if contentTerms[term] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}

// termSet lowercases and keeps words long enough to be discriminating.
// Short French function words (le, la, de, et) carry no signal.
func termSet(text string) map[string]bool {
	terms := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len([]rune(w)) >= 4 {
			terms[w] = true
		}
	}
	return terms
}
