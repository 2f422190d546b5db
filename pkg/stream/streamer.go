package stream

import (
	"context"

	"advertiser-chatbot-be/pkg/llm"
	"advertiser-chatbot-be/pkg/utils"
)

// Finalize runs once generation succeeded, with the full assistant message.
// It persists the turn and builds the final payload; an error from it turns
// the stream into an error event and nothing is considered persisted.
type Finalize func(full string) (FinalPayload, error)

// Streamer turns one generation (or one static message) into an ordered
// event stream: meta, token*, then exactly one final or error. The channel
// has a single producer and is closed exactly once, whatever path the turn
// takes.
type Streamer struct {
	provider llm.LLMProvider
	fallback string
}

func NewStreamer(provider llm.LLMProvider, fallback string) *Streamer {
	return &Streamer{
		provider: provider,
		fallback: fallback,
	}
}

// Generate streams a model answer. On a stream failure it retries once over
// the non-streaming path; if that fails too, the stream ends with an error
// event carrying the fallback copy.
func (s *Streamer) Generate(ctx context.Context, meta MetaPayload, prompt []llm.Message, finalize Finalize) <-chan Event {
	out := make(chan Event, 32)

	go func() {
		defer close(out)

		if !emit(ctx, out, Event{Name: EventMeta, Data: meta}) {
			return
		}

		full, err := s.provider.ChatStream(ctx, prompt, func(token string) error {
			if !emit(ctx, out, Event{Name: EventToken, Data: TokenPayload{Value: token}}) {
				return ctx.Err()
			}
			return nil
		})
		if ctx.Err() != nil {
			// Client gone: no final, no persistence.
			return
		}
		if err != nil {
			// One retry over the synchronous path. Tokens already sent
			// stay sent; the final message is authoritative.
			full, err = s.provider.Chat(ctx, prompt)
		}
		if err != nil {
			emit(ctx, out, Event{Name: EventError, Data: ErrorPayload{Detail: s.fallback}})
			return
		}

		// Strip fences or JSON wrappers the model may have added.
		s.finish(ctx, out, llm.NormalizeText(full), finalize)
	}()

	return out
}

// Replay streams a precomputed message token by token, without a model
// call. Menu answers and guardrail redirects go through here so the client
// sees one wire contract for every turn.
func (s *Streamer) Replay(ctx context.Context, meta MetaPayload, message string, finalize Finalize) <-chan Event {
	out := make(chan Event, 32)

	go func() {
		defer close(out)

		if !emit(ctx, out, Event{Name: EventMeta, Data: meta}) {
			return
		}

		for _, fragment := range utils.Tokenize(message) {
			if !emit(ctx, out, Event{Name: EventToken, Data: TokenPayload{Value: fragment}}) {
				return
			}
		}

		s.finish(ctx, out, message, finalize)
	}()

	return out
}

func (s *Streamer) finish(ctx context.Context, out chan<- Event, full string, finalize Finalize) {
	final, err := finalize(full)
	if err != nil {
		emit(ctx, out, Event{Name: EventError, Data: ErrorPayload{Detail: s.fallback}})
		return
	}
	emit(ctx, out, Event{Name: EventFinal, Data: final})
}

// emit reports false when the context died before the event was accepted.
func emit(ctx context.Context, out chan<- Event, e Event) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
