package retriever

import (
	"context"
	"fmt"

	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/embedding"

	"github.com/google/uuid"
)

// Chunk is one retrieved knowledge fragment with its relevance score.
type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Content    string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// Reranker reorders retrieved chunks. The default keeps database order
// (similarity DESC); a custom implementation can plug in without touching
// the retriever.
type Reranker interface {
	Rerank(query string, chunks []Chunk) []Chunk
}

type Config struct {
	TopK            int
	SimilarityFloor float64
}

func DefaultConfig() Config {
	return Config{
		TopK:            4,
		SimilarityFloor: 0.35,
	}
}

// Retriever embeds the query and runs a cosine similarity search over the
// indexed knowledge chunks. Chunks below the similarity floor never reach
// the prompt.
type Retriever struct {
	provider   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
	reranker   Reranker
	cfg        Config
}

type Option func(*Retriever)

func WithReranker(r Reranker) Option {
	return func(ret *Retriever) {
		ret.reranker = r
	}
}

func NewRetriever(provider embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, cfg Config, opts ...Option) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	r := &Retriever{
		provider:   provider,
		uowFactory: uowFactory,
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns the top chunks for a query, highest relevance first.
// An empty result is a valid answer: it means the knowledge base has
// nothing relevant enough, and the caller must not invent facts.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Chunk, error) {
	resp, err := r.provider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(
		ctx, resp.Embedding.Values, r.cfg.TopK, r.cfg.SimilarityFloor)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	chunks := make([]Chunk, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, Chunk{
			ID:         s.Chunk.Id,
			DocumentID: s.Chunk.DocumentId,
			Content:    s.Chunk.Content,
			Similarity: s.Similarity,
		})
	}

	if r.reranker != nil {
		chunks = r.reranker.Rerank(query, chunks)
	}
	return chunks, nil
}
