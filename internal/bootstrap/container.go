package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"advertiser-chatbot-be/internal/config"
	"advertiser-chatbot-be/internal/controller"
	"advertiser-chatbot-be/internal/pkg/logger"
	"advertiser-chatbot-be/internal/pkg/mailer"
	"advertiser-chatbot-be/internal/repository/memory"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/internal/service"
	"advertiser-chatbot-be/internal/websocket"
	"advertiser-chatbot-be/pkg/dialogue"
	"advertiser-chatbot-be/pkg/embedding"
	"advertiser-chatbot-be/pkg/events"
	"advertiser-chatbot-be/pkg/llm/factory"
	"advertiser-chatbot-be/pkg/rag/history"
	"advertiser-chatbot-be/pkg/rag/prompt"
	"advertiser-chatbot-be/pkg/rag/rerank"
	"advertiser-chatbot-be/pkg/rag/retriever"
	"advertiser-chatbot-be/pkg/stream"

	pktNats "advertiser-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController   controller.IChatbotController
	KnowledgeController controller.IKnowledgeController
	LeadController      controller.ILeadController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// The transition table is the dialogue contract; a broken table must
	// never reach traffic.
	if err := dialogue.ValidateTable(); err != nil {
		log.Fatalf("[FATAL] Invalid dialogue table: %v", err)
	}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SalesEmail,
		cfg.App.Environment == "production",
	)

	// 2. Event Bus (in-process, for the indexing worker)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, "")
		log.Printf("[INFO] Using Embedding Provider: OPENAI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	llmBaseURL := cfg.Ai.OllamaBaseURL
	llmAPIKey := ""
	if cfg.Ai.LLMProvider == "openai" {
		llmBaseURL = cfg.Ai.OpenAIBaseURL
		llmAPIKey = cfg.Ai.OpenAIAPIKey
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		llmAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory session cache and turn lock
	sessionRepo := memory.NewSessionRepository()
	turnGuard := memory.NewTurnGuard()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub (operator lead feed)
	wsLogger := logger.NewIsolatedLogger("logs/leadfeed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// The feed listens to the event bus when NATS is up; otherwise the lead
	// service pushes to the hub directly.
	var hub service.Broadcaster
	if natsSub != nil {
		if err := natsSub.Subscribe("events.lead.captured", "lead-feed", func(ctx context.Context, event events.Event) error {
			payload, err := json.Marshal(event.Payload())
			if err != nil {
				return err
			}
			wsHub.Broadcast(payload)
			return nil
		}); err != nil {
			log.Printf("[WARN] Failed to subscribe to lead events: %v", err)
		}
	} else {
		hub = wsHub
	}

	// 4. RAG pipeline
	knowledgeRetriever := retriever.NewRetriever(
		embeddingProvider,
		uowFactory,
		retriever.Config{
			TopK:            cfg.Rag.TopK,
			SimilarityFloor: cfg.Rag.SimilarityFloor,
		},
		retriever.WithReranker(rerank.NewLexicalReranker()),
	)
	composer := prompt.NewComposer(cfg.Rag.PromptBudget)
	historyLoader := history.NewLoader(uowFactory)
	streamer := stream.NewStreamer(llmProvider, dialogue.MsgFallback)

	machine := dialogue.NewMachine(
		dialogue.WithRetrievalTrigger(retriever.ShouldTrigger),
	)

	// 5. Services
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		embeddingProvider,
	)

	leadService := service.NewLeadService(uowFactory, emailService, natsPub, hub, sysLogger)
	knowledgeService := service.NewKnowledgeService(uowFactory, pubSub, cfg.App.IngestTopic)
	chatbotService := service.NewChatbotService(
		uowFactory,
		sessionRepo,
		turnGuard,
		machine,
		knowledgeRetriever,
		composer,
		historyLoader,
		streamer,
		leadService,
		sysLogger,
	)

	// 6. Controllers
	pingInterval := time.Duration(cfg.Chat.PingIntervalSeconds) * time.Second
	return &Container{
		ChatbotController:   controller.NewChatbotController(chatbotService, pingInterval),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		LeadController:      controller.NewLeadController(leadService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
