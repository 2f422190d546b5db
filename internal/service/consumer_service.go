// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/embedding"
	"advertiser-chatbot-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	chunkSizeWords    = 200
	chunkOverlapWords = 40
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing knowledge document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	// 1. Split Text into word chunks
	chunks := utils.SplitWords(doc.Content, chunkSizeWords, chunkOverlapWords)
	log.Printf("[INFO] Document %s split into %d chunks", doc.Id, len(chunks))

	var newChunks []*entity.KnowledgeChunk

	// 2. Embed each chunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, doc.Id, err)
			cs.markFailed(ctx, doc)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.KnowledgeChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Content:        chunk,
			ChunkIndex:     i,
			TokenCount:     utils.EstimateTokens(chunk),
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-indexing replaces the previous chunks wholesale.
	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			log.Printf("[ERROR] Failed to create chunks: %v", err)
			msg.Nack()
			return
		}
	}

	doc.Status = "indexed"
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document indexed: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document indexed: %d chunks for %s", len(newChunks), doc.Id)
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, doc *entity.KnowledgeDocument) {
	doc.Status = "failed"
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document failed: %v", err)
	}
}
