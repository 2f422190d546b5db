// FILE: internal/service/chat_service_test.go
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/pkg/logger"
	"advertiser-chatbot-be/internal/repository/contract"
	"advertiser-chatbot-be/internal/repository/memory"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/dialogue"
	"advertiser-chatbot-be/pkg/llm"
	"advertiser-chatbot-be/pkg/rag/history"
	"advertiser-chatbot-be/pkg/rag/prompt"
	"advertiser-chatbot-be/pkg/rag/retriever"
	"advertiser-chatbot-be/pkg/stream"

	"github.com/google/uuid"
)

// --- in-memory persistence fakes ---

type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ChatSession
	turns    []*entity.ChatTurn
	leads    []*entity.Lead
}

func newMemStore() *memStore {
	return &memStore{sessions: map[uuid.UUID]*entity.ChatSession{}}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}
func (u *memUow) ChatTurnRepository() contract.ChatTurnRepository {
	return &memTurnRepo{store: u.store}
}
func (u *memUow) LeadRepository() contract.LeadRepository {
	return &memLeadRepo{store: u.store}
}
func (u *memUow) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return nil
}
func (u *memUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return nil
}

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *memSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	return r.Create(ctx, session)
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if session, found := r.store.sessions[byID.ID]; found {
				copied := *session
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return nil, nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type memTurnRepo struct {
	store *memStore
}

func (r *memTurnRepo) Create(ctx context.Context, turn *entity.ChatTurn) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *turn
	r.store.turns = append(r.store.turns, &copied)
	return nil
}

func (r *memTurnRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memTurnRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error { return nil }

func (r *memTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTurn, error) {
	return nil, nil
}

func (r *memTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessionId uuid.UUID
	for _, spec := range specs {
		if bySession, ok := spec.(specification.BySessionID); ok {
			sessionId = bySession.SessionID
		}
	}
	var turns []*entity.ChatTurn
	for _, turn := range r.store.turns {
		if turn.SessionId == sessionId {
			copied := *turn
			turns = append(turns, &copied)
		}
	}
	return turns, nil
}

func (r *memTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type memLeadRepo struct {
	store *memStore
}

func (r *memLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *lead
	r.store.leads = append(r.store.leads, &copied)
	return nil
}

func (r *memLeadRepo) Update(ctx context.Context, lead *entity.Lead) error { return nil }

func (r *memLeadRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memLeadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lead, error) {
	return nil, nil
}

func (r *memLeadRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]*entity.Lead{}, r.store.leads...), nil
}

func (r *memLeadRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

// --- pipeline fakes ---

type fakeRetriever struct {
	chunks []retriever.Chunk
	err    error
	calls  int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]retriever.Chunk, error) {
	f.calls++
	return f.chunks, f.err
}

type fakeLLM struct {
	tokens      []string
	streamCalls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(f.tokens, ""), nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, onToken func(token string) error, options ...llm.Option) (string, error) {
	f.streamCalls++
	var b strings.Builder
	for _, token := range f.tokens {
		if err := onToken(token); err != nil {
			return b.String(), err
		}
		b.WriteString(token)
	}
	return b.String(), nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return strings.Join(f.tokens, ""), nil
}

type fakeMailer struct {
	sent int
}

func (f *fakeMailer) SendLeadNotification(lead *entity.Lead) error {
	f.sent++
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// --- harness ---

type chatHarness struct {
	service   IChatbotService
	store     *memStore
	retriever *fakeRetriever
	llm       *fakeLLM
	mailer    *fakeMailer
	guard     *memory.TurnGuard
}

func newChatHarness() *chatHarness {
	store := newMemStore()
	factory := &memFactory{store: store}
	fakeRet := &fakeRetriever{}
	fakeModel := &fakeLLM{tokens: []string{"Bonjour", " ", "annonceur"}}
	fakeMail := &fakeMailer{}
	guard := memory.NewTurnGuard()

	leadSvc := NewLeadService(factory, fakeMail, nil, nil, nopLogger{})
	chatSvc := NewChatbotService(
		factory,
		memory.NewSessionRepository(),
		guard,
		dialogue.NewMachine(),
		fakeRet,
		prompt.NewComposer(2048),
		history.NewLoader(factory),
		stream.NewStreamer(fakeModel, dialogue.MsgFallback),
		leadSvc,
		nopLogger{},
	)

	return &chatHarness{
		service:   chatSvc,
		store:     store,
		retriever: fakeRet,
		llm:       fakeModel,
		mailer:    fakeMail,
		guard:     guard,
	}
}

func (h *chatHarness) seedSession(t *testing.T, step dialogue.Step, slots map[string]string) uuid.UUID {
	t.Helper()
	if slots == nil {
		slots = map[string]string{}
	}
	session := &entity.ChatSession{Id: uuid.New(), Step: string(step), Slots: slots}
	if err := (&memSessionRepo{store: h.store}).Create(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session.Id
}

func drain(t *testing.T, events <-chan stream.Event) (stream.MetaPayload, []string, *stream.FinalPayload, *stream.ErrorPayload) {
	t.Helper()
	var meta stream.MetaPayload
	var tokens []string
	var final *stream.FinalPayload
	var errPayload *stream.ErrorPayload
	for e := range events {
		switch e.Name {
		case stream.EventMeta:
			meta = e.Data.(stream.MetaPayload)
		case stream.EventToken:
			tokens = append(tokens, e.Data.(stream.TokenPayload).Value)
		case stream.EventFinal:
			payload := e.Data.(stream.FinalPayload)
			final = &payload
		case stream.EventError:
			payload := e.Data.(stream.ErrorPayload)
			errPayload = &payload
		}
	}
	return meta, tokens, final, errPayload
}

// --- tests ---

func TestCreateSessionStartsAtWelcome(t *testing.T) {
	h := newChatHarness()

	resp, err := h.service.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if resp.Step != string(dialogue.StepWelcome) {
		t.Errorf("Step = %q, want %q", resp.Step, dialogue.StepWelcome)
	}
	if len(resp.Buttons) == 0 {
		t.Error("expected welcome buttons")
	}
	if _, found := h.store.sessions[resp.SessionId]; !found {
		t.Error("session not persisted")
	}
}

func TestStreamMessageButtonTurnPersists(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepWelcome, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnStart,
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	meta, tokens, final, errPayload := drain(t, events)
	if errPayload != nil {
		t.Fatalf("unexpected error event: %s", errPayload.Detail)
	}
	if final == nil {
		t.Fatal("missing final event")
	}
	if meta.Route != stream.RouteDirect {
		t.Errorf("Route = %q, want %q", meta.Route, stream.RouteDirect)
	}
	if final.State.Step != string(dialogue.StepMainMenu) {
		t.Errorf("Step = %q, want %q", final.State.Step, dialogue.StepMainMenu)
	}
	if strings.Join(tokens, "") != final.AssistantMessage {
		t.Error("token concatenation does not match final message")
	}

	if len(h.store.turns) != 1 {
		t.Fatalf("turns persisted = %d, want 1", len(h.store.turns))
	}
	turn := h.store.turns[0]
	if turn.StepBefore != string(dialogue.StepWelcome) || turn.StepAfter != string(dialogue.StepMainMenu) {
		t.Errorf("turn steps = %s -> %s", turn.StepBefore, turn.StepAfter)
	}
	if h.store.sessions[sessionId].Step != string(dialogue.StepMainMenu) {
		t.Error("session step not advanced in store")
	}
}

func TestStreamMessageUnknownSession(t *testing.T) {
	h := newChatHarness()

	_, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: uuid.New(),
		Message:   "bonjour",
	})
	var notFound *dto.NotFoundError
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !errors.As(err, &notFound) {
		t.Errorf("error = %T, want *dto.NotFoundError", err)
	}
}

func TestStreamMessageRejectsConcurrentTurn(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepMainMenu, nil)

	if !h.guard.Acquire(sessionId.String()) {
		t.Fatal("could not seed in-flight turn")
	}
	defer h.guard.Release(sessionId.String())

	_, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnAudience,
	})
	var inFlight *dto.TurnInFlightError
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !errors.As(err, &inFlight) {
		t.Errorf("error = %T, want *dto.TurnInFlightError", err)
	}
}

func TestGuardReleasedAfterTurn(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepWelcome, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnStart,
	})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	drain(t, events)

	events, err = h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnAudience,
	})
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}
	drain(t, events)
}

func TestOutOfScopeSkipsRetrievalAndModel(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepAudience, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		Message:   "il y a une erreur dans votre dernier papier sur le sport",
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	meta, _, final, _ := drain(t, events)
	if final == nil {
		t.Fatal("missing final event")
	}
	if meta.Route != stream.RouteDirect {
		t.Errorf("Route = %q, want %q", meta.Route, stream.RouteDirect)
	}
	if final.State.Step != string(dialogue.StepOutOfScope) {
		t.Errorf("Step = %q, want %q", final.State.Step, dialogue.StepOutOfScope)
	}
	if final.AssistantMessage != dialogue.MsgOutOfScope {
		t.Error("redirect copy should be the fixed out-of-scope message")
	}
	if h.retriever.calls != 0 {
		t.Errorf("retriever calls = %d, want 0", h.retriever.calls)
	}
	if h.llm.streamCalls != 0 {
		t.Errorf("model calls = %d, want 0", h.llm.streamCalls)
	}
}

func TestEmptyRetrievalOnFactualQuestion(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepAudience, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		Message:   "combien de visites par mois sur votre audience ?",
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	meta, _, final, _ := drain(t, events)
	if final == nil {
		t.Fatal("missing final event")
	}
	if meta.Route != stream.RouteRag {
		t.Errorf("Route = %q, want %q", meta.Route, stream.RouteRag)
	}
	if !meta.RagEmptyFactual {
		t.Error("RagEmptyFactual should be set")
	}
	if final.AssistantMessage != dialogue.MsgNoKnowledge {
		t.Errorf("AssistantMessage = %q, want the no-knowledge copy", final.AssistantMessage)
	}
	if h.llm.streamCalls != 0 {
		t.Errorf("model calls = %d, want 0 when knowledge is empty", h.llm.streamCalls)
	}
}

func TestGeneratedTurnWithKnowledge(t *testing.T) {
	h := newChatHarness()
	h.retriever.chunks = []retriever.Chunk{
		{ID: uuid.New(), Content: "Tunisie Numérique compte 8 millions de visites par mois.", Similarity: 0.9},
	}
	sessionId := h.seedSession(t, dialogue.StepAudience, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		Message:   "combien de visites par mois sur votre audience ?",
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	meta, tokens, final, _ := drain(t, events)
	if final == nil {
		t.Fatal("missing final event")
	}
	if meta.Route != stream.RouteRag {
		t.Errorf("Route = %q, want %q", meta.Route, stream.RouteRag)
	}
	if meta.RagEmptyFactual {
		t.Error("RagEmptyFactual should not be set when chunks were found")
	}
	if h.llm.streamCalls != 1 {
		t.Errorf("model calls = %d, want 1", h.llm.streamCalls)
	}
	if strings.Join(tokens, "") != final.AssistantMessage {
		t.Error("token concatenation does not match final message")
	}
	if len(h.store.turns) != 1 || !h.store.turns[0].RagUsed {
		t.Error("turn should be persisted with RagUsed set")
	}
	if final.State.SuggestedNextStep != string(dialogue.StepLeadForm) {
		t.Errorf("SuggestedNextStep = %q, want %q", final.State.SuggestedNextStep, dialogue.StepLeadForm)
	}
}

func TestLeadCapturedTriggersHandoff(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepLeadForm, map[string]string{
		"company":    "Atlas Immobilier",
		"entry_path": "immoneuf",
	})

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		Message:   "vous pouvez me joindre sur contact@atlas-immo.tn",
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	_, _, final, _ := drain(t, events)
	if final == nil {
		t.Fatal("missing final event")
	}
	if final.State.Step != string(dialogue.StepLeadCaptured) {
		t.Errorf("Step = %q, want %q", final.State.Step, dialogue.StepLeadCaptured)
	}

	if len(h.store.leads) != 1 {
		t.Fatalf("leads persisted = %d, want 1", len(h.store.leads))
	}
	lead := h.store.leads[0]
	if lead.Company != "Atlas Immobilier" {
		t.Errorf("Company = %q", lead.Company)
	}
	if lead.Email != "contact@atlas-immo.tn" {
		t.Errorf("Email = %q", lead.Email)
	}
	if lead.EntryPath != "immoneuf" {
		t.Errorf("EntryPath = %q", lead.EntryPath)
	}
	if h.mailer.sent != 1 {
		t.Errorf("notification emails = %d, want 1", h.mailer.sent)
	}
}

func TestSendMessageSynchronous(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepWelcome, nil)

	resp, err := h.service.SendMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnStart,
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if resp.State.Step != string(dialogue.StepMainMenu) {
		t.Errorf("Step = %q, want %q", resp.State.Step, dialogue.StepMainMenu)
	}
	if resp.Route != stream.RouteDirect {
		t.Errorf("Route = %q, want %q", resp.Route, stream.RouteDirect)
	}
	if resp.AssistantMessage == "" {
		t.Error("expected assistant message")
	}
}

func TestGetTurnsReturnsHistory(t *testing.T) {
	h := newChatHarness()
	sessionId := h.seedSession(t, dialogue.StepWelcome, nil)

	events, err := h.service.StreamMessage(context.Background(), dto.SendMessageRequest{
		SessionId: sessionId,
		ButtonId:  dialogue.BtnStart,
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}
	drain(t, events)

	turns, err := h.service.GetTurns(context.Background(), sessionId)
	if err != nil {
		t.Fatalf("GetTurns() error = %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(turns))
	}
	if turns[0].UserMessage != dialogue.BtnStart {
		t.Errorf("UserMessage = %q, want button id", turns[0].UserMessage)
	}
}
