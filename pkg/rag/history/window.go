package history

import (
	"context"

	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader produces the recent-turn window fed to the prompt composer.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
	limit      int
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{
		uowFactory: uowFactory,
		limit:      10,
	}
}

// LoadWindow returns the last turns of a session as chat messages, oldest
// first. Each stored turn expands to a user message and an assistant
// message.
func (l *Loader) LoadWindow(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: l.limit},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(turns)*2)
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn.UserMessage != "" {
			messages = append(messages, llm.Message{Role: "user", Content: turn.UserMessage})
		}
		if turn.AssistantMessage != "" {
			messages = append(messages, llm.Message{Role: "assistant", Content: turn.AssistantMessage})
		}
	}

	return messages, nil
}
