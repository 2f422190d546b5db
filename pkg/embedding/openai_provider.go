package embedding

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider backed by the OpenAI
// embeddings API (or any compatible endpoint).
type OpenAIProvider struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

func NewOpenAIProvider(apiKey, baseURL, model string) EmbeddingProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		model:  goopenai.EmbeddingModel(model),
	}
}

func (p *OpenAIProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType has no OpenAI equivalent; kept for interface compatibility

	resp, err := p.client.CreateEmbeddings(context.Background(), goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(resp.Data[0].Embedding),
		},
	}, nil
}
