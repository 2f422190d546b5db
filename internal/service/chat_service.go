// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"fmt"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/pkg/logger"
	"advertiser-chatbot-be/internal/repository/memory"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/dialogue"
	"advertiser-chatbot-be/pkg/dialogue/guardrail"
	"advertiser-chatbot-be/pkg/rag/history"
	"advertiser-chatbot-be/pkg/rag/prompt"
	"advertiser-chatbot-be/pkg/rag/retriever"
	"advertiser-chatbot-be/pkg/stream"

	"github.com/google/uuid"
)

// KnowledgeRetriever is the retrieval dependency of the chat pipeline.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, query string) ([]retriever.Chunk, error)
}

type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	// StreamMessage runs one turn and returns its event stream. The session
	// is locked for the duration of the stream: a concurrent turn on the
	// same session gets a TurnInFlightError.
	StreamMessage(ctx context.Context, req dto.SendMessageRequest) (<-chan stream.Event, error)
	// SendMessage runs one turn synchronously by draining the stream.
	SendMessage(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetTurns(ctx context.Context, sessionId uuid.UUID) ([]dto.GetTurnsResponse, error)
}

type chatbotService struct {
	uowFactory    unitofwork.RepositoryFactory
	sessionCache  *memory.SessionRepository
	guard         *memory.TurnGuard
	machine       *dialogue.Machine
	classifier    *guardrail.Classifier
	retriever     KnowledgeRetriever
	composer      *prompt.Composer
	historyLoader *history.Loader
	streamer      *stream.Streamer
	leadService   ILeadService
	logger        logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *memory.SessionRepository,
	guard *memory.TurnGuard,
	machine *dialogue.Machine,
	knowledgeRetriever KnowledgeRetriever,
	composer *prompt.Composer,
	historyLoader *history.Loader,
	streamer *stream.Streamer,
	leadService ILeadService,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:    uowFactory,
		sessionCache:  sessionCache,
		guard:         guard,
		machine:       machine,
		classifier:    guardrail.NewClassifier(),
		retriever:     knowledgeRetriever,
		composer:      composer,
		historyLoader: historyLoader,
		streamer:      streamer,
		leadService:   leadService,
		logger:        log,
	}
}

func (s *chatbotService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := &entity.ChatSession{
		Id:    uuid.New(),
		Step:  string(dialogue.StepWelcome),
		Slots: map[string]string{},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	s.sessionCache.Save(session)

	return &dto.CreateSessionResponse{
		SessionId: session.Id,
		Step:      session.Step,
		Message:   dialogue.MessageFor(dialogue.StepWelcome),
		Buttons:   dialogue.ButtonsFor(dialogue.StepWelcome),
	}, nil
}

func (s *chatbotService) StreamMessage(ctx context.Context, req dto.SendMessageRequest) (<-chan stream.Event, error) {
	session, err := s.loadSession(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	if !s.guard.Acquire(session.Id.String()) {
		return nil, &dto.TurnInFlightError{SessionId: session.Id}
	}

	currentStep := dialogue.Step(session.Step)
	result := s.machine.Transition(currentStep, session.Slots, dialogue.Input{
		ButtonID: req.ButtonId,
		Text:     req.Message,
	})

	userMessage := req.Message
	if userMessage == "" {
		userMessage = req.ButtonId
	}

	finalize := s.buildFinalize(ctx, session, currentStep, userMessage, result)

	var events <-chan stream.Event
	if result.Generate {
		events = s.streamGenerated(ctx, session, req.Message, result, finalize)
	} else {
		meta := stream.MetaPayload{Route: stream.RouteDirect}
		events = s.streamer.Replay(ctx, meta, result.Message, finalize)
	}

	return s.relay(events, session.Id.String()), nil
}

// streamGenerated handles the free-question path: optional retrieval, the
// empty-knowledge guard, then prompt composition and model streaming.
func (s *chatbotService) streamGenerated(
	ctx context.Context,
	session *entity.ChatSession,
	question string,
	result dialogue.Result,
	finalize stream.Finalize,
) <-chan stream.Event {
	meta := stream.MetaPayload{Route: stream.RouteDirect}

	var chunks []retriever.Chunk
	if result.RetrievalNeeded {
		meta.Route = stream.RouteRag
		retrieved, err := s.retriever.Retrieve(ctx, question)
		if err != nil {
			// Degrade to no context rather than failing the turn. A factual
			// question will still hit the no-knowledge guard below.
			s.logger.Warn("chat_service", "retrieval failed", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		} else {
			chunks = retrieved
		}
	}

	factual := result.FactualOnly || s.classifier.IsFactualQuestion(question)
	if result.RetrievalNeeded && len(chunks) == 0 && factual {
		// Nothing relevant in the knowledge base: say so instead of letting
		// the model invent figures.
		meta.RagEmptyFactual = true
		return s.streamer.Replay(ctx, meta, dialogue.MsgNoKnowledge, finalize)
	}

	window, err := s.historyLoader.LoadWindow(ctx, session.Id)
	if err != nil {
		s.logger.Warn("chat_service", "history load failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	messages := s.composer.Compose(prompt.Input{
		Step:        session.Step,
		Slots:       session.Slots,
		Chunks:      chunks,
		History:     window,
		Query:       question,
		FactualOnly: factual,
	})

	return s.streamer.Generate(ctx, meta, messages, finalize)
}

// buildFinalize returns the closure run once the assistant message is
// complete. It persists the turn and the advanced session in one
// transaction; a cancelled stream never reaches it, so an abandoned turn
// leaves no trace.
func (s *chatbotService) buildFinalize(
	ctx context.Context,
	session *entity.ChatSession,
	stepBefore dialogue.Step,
	userMessage string,
	result dialogue.Result,
) stream.Finalize {
	return func(full string) (stream.FinalPayload, error) {
		updated := *session
		updated.Step = string(result.Next)
		updated.Slots = mergeSlots(session.Slots, result.SlotDelta)

		turn := &entity.ChatTurn{
			Id:               uuid.New(),
			SessionId:        session.Id,
			UserMessage:      userMessage,
			AssistantMessage: full,
			StepBefore:       string(stepBefore),
			StepAfter:        string(result.Next),
			SlotDelta:        result.SlotDelta,
			RagUsed:          result.RetrievalNeeded,
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return stream.FinalPayload{}, err
		}
		defer uow.Rollback()

		if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
			return stream.FinalPayload{}, err
		}
		if err := uow.ChatSessionRepository().Update(ctx, &updated); err != nil {
			return stream.FinalPayload{}, err
		}
		if err := uow.Commit(); err != nil {
			return stream.FinalPayload{}, err
		}
		s.sessionCache.Save(&updated)

		if result.LeadReady {
			// The turn is already committed: a lead-side failure must not
			// turn a delivered answer into an error event.
			if _, err := s.leadService.CaptureLead(ctx, &updated); err != nil {
				s.logger.Error("chat_service", "lead capture failed", map[string]interface{}{
					"session_id": session.Id.String(),
					"error":      err.Error(),
				})
			}
		}

		return stream.FinalPayload{
			AssistantMessage: full,
			State: stream.StatePayload{
				Step:              string(result.Next),
				SlotUpdates:       result.SlotDelta,
				SuggestedNextStep: suggestNext(result, updated.Slots),
			},
			Buttons: result.Buttons,
		}, nil
	}
}

// relay copies the turn stream to the caller and releases the session lock
// when the stream ends, whichever way it ended.
func (s *chatbotService) relay(in <-chan stream.Event, sessionID string) <-chan stream.Event {
	out := make(chan stream.Event, 32)
	go func() {
		defer close(out)
		defer s.guard.Release(sessionID)
		for e := range in {
			out <- e
		}
	}()
	return out
}

func (s *chatbotService) SendMessage(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	events, err := s.StreamMessage(ctx, req)
	if err != nil {
		return nil, err
	}

	var meta stream.MetaPayload
	var final *stream.FinalPayload
	var detail string

	for e := range events {
		switch e.Name {
		case stream.EventMeta:
			meta = e.Data.(stream.MetaPayload)
		case stream.EventFinal:
			payload := e.Data.(stream.FinalPayload)
			final = &payload
		case stream.EventError:
			detail = e.Data.(stream.ErrorPayload).Detail
		}
	}

	if final == nil {
		if detail != "" {
			return nil, fmt.Errorf("turn failed: %s", detail)
		}
		return nil, ctx.Err()
	}

	return &dto.SendMessageResponse{
		AssistantMessage: final.AssistantMessage,
		State:            final.State,
		Buttons:          final.Buttons,
		Route:            meta.Route,
		RagEmptyFactual:  meta.RagEmptyFactual,
	}, nil
}

func (s *chatbotService) GetTurns(ctx context.Context, sessionId uuid.UUID) ([]dto.GetTurnsResponse, error) {
	if _, err := s.loadSession(ctx, sessionId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GetTurnsResponse, len(turns))
	for i, turn := range turns {
		responses[i] = dto.GetTurnsResponse{
			Id:               turn.Id,
			UserMessage:      turn.UserMessage,
			AssistantMessage: turn.AssistantMessage,
			StepBefore:       turn.StepBefore,
			StepAfter:        turn.StepAfter,
			SlotDelta:        turn.SlotDelta,
			RagUsed:          turn.RagUsed,
			CreatedAt:        turn.CreatedAt,
		}
	}
	return responses, nil
}

func (s *chatbotService) loadSession(ctx context.Context, sessionId uuid.UUID) (*entity.ChatSession, error) {
	if session, found := s.sessionCache.Get(sessionId.String()); found {
		return session, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &dto.NotFoundError{Resource: "session", Id: sessionId}
	}
	s.sessionCache.Save(session)
	return session, nil
}

// suggestNext nudges a prospect who got a generated answer in a content step
// toward leaving their contact details. Menu turns carry their own buttons.
func suggestNext(result dialogue.Result, slotValues map[string]string) string {
	if !result.Generate || dialogue.LeadComplete(slotValues) {
		return ""
	}
	switch result.Next {
	case dialogue.StepAudience,
		dialogue.StepSolutionsDisplay, dialogue.StepSolutionsContent,
		dialogue.StepSolutionsVideo, dialogue.StepSolutionsAudio,
		dialogue.StepSolutionsInnovation, dialogue.StepSolutionsMag,
		dialogue.StepImmoneuf, dialogue.StepPremium, dialogue.StepPartnership:
		return string(dialogue.StepLeadForm)
	}
	return ""
}

func mergeSlots(base, delta map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(delta))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] = v
	}
	return merged
}
