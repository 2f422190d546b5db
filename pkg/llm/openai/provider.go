package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"advertiser-chatbot-be/pkg/llm"
)

type OpenAIProvider struct {
	client *goopenai.Client
	model  string
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

// NewOpenAIProvider targets the OpenAI API or any compatible endpoint
// (leave baseURL empty for the official one).
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := p.applyOptions(options)

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    toOpenAIMessages(history),
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, onToken func(token string) error, options ...llm.Option) (string, error) {
	opts := p.applyOptions(options)

	stream, err := p.client.CreateChatCompletionStream(ctx, goopenai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    toOpenAIMessages(history),
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("openai stream recv: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		full.WriteString(token)
		if err := onToken(token); err != nil {
			return full.String(), err
		}
	}

	return full.String(), nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (p *OpenAIProvider) applyOptions(options []llm.Option) *llm.Options {
	opts := &llm.Options{
		Model:       p.model,
		Temperature: 0.7,
	}
	for _, o := range options {
		o(opts)
	}
	return opts
}

func toOpenAIMessages(history []llm.Message) []goopenai.ChatCompletionMessage {
	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}
	return messages
}
