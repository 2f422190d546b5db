package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.LeadRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Knowledge Chunk Repository", func(t *testing.T) {
		// Count implies table check
		count, err := uow.KnowledgeChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("KnowledgeChunk count: %d", count)
	})

	t.Run("Check Transactional Session Turn Lead", func(t *testing.T) {
		ctx := context.Background()

		session := &entity.ChatSession{
			Id:    uuid.New(),
			Step:  "LEAD_CAPTURED",
			Slots: map[string]string{"company": "Integration Test SARL", "email": "it@example.tn"},
		}

		txUow := uowFactory.NewUnitOfWork(ctx)
		err := txUow.Begin(ctx)
		assert.NoError(t, err)
		defer txUow.Rollback()

		err = txUow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		turn := &entity.ChatTurn{
			Id:               uuid.New(),
			SessionId:        session.Id,
			UserMessage:      "it@example.tn",
			AssistantMessage: "Merci !",
			StepBefore:       "LEAD_FORM",
			StepAfter:        "LEAD_CAPTURED",
			SlotDelta:        map[string]string{"email": "it@example.tn"},
		}
		err = txUow.ChatTurnRepository().Create(ctx, turn)
		assert.NoError(t, err)

		lead := &entity.Lead{
			Id:          uuid.New(),
			SessionId:   session.Id,
			Company:     "Integration Test SARL",
			Email:       "it@example.tn",
			EmailStatus: "pending",
		}
		err = txUow.LeadRepository().Create(ctx, lead)
		assert.NoError(t, err)

		// Read back inside the transaction
		found, err := txUow.ChatTurnRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
		)
		assert.NoError(t, err)
		assert.Len(t, found, 1)

		// Rollback in defer keeps the database clean
	})

	t.Run("Check Similarity Search Contract", func(t *testing.T) {
		// A zero vector must return without error even on an empty table
		embedding := make([]float32, 768)
		results, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(
			context.Background(), embedding, 4, 0.35)
		assert.NoError(t, err)
		t.Logf("Similarity search returned %d chunks", len(results))
	})
}
