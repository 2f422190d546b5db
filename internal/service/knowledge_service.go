// FILE: internal/service/knowledge_service.go
package service

import (
	"context"
	"encoding/json"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IKnowledgeService interface {
	// CreateDocument stores the raw document and queues it for indexing.
	// Chunking and embedding happen asynchronously in the consumer.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error)
	ReindexDocument(ctx context.Context, id uuid.UUID) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type knowledgeService struct {
	uowFactory unitofwork.RepositoryFactory
	pubSub     *gochannel.GoChannel
	topicName  string
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	pubSub *gochannel.GoChannel,
	topicName string,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory: uowFactory,
		pubSub:     pubSub,
		topicName:  topicName,
	}
}

func (s *knowledgeService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	doc := &entity.KnowledgeDocument{
		Id:      uuid.New(),
		Title:   req.Title,
		Source:  req.Source,
		Status:  "pending",
		Content: req.Content,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KnowledgeDocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.publishIndexMessage(doc.Id); err != nil {
		return nil, err
	}

	return &dto.DocumentResponse{
		Id:        doc.Id,
		Title:     doc.Title,
		Source:    doc.Source,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *knowledgeService) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.KnowledgeDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		count, err := uow.KnowledgeChunkRepository().Count(ctx,
			specification.ByDocumentID{DocumentID: doc.Id},
		)
		if err != nil {
			return nil, err
		}
		responses[i] = dto.DocumentResponse{
			Id:         doc.Id,
			Title:      doc.Title,
			Source:     doc.Source,
			Status:     doc.Status,
			ChunkCount: count,
			CreatedAt:  doc.CreatedAt,
		}
	}
	return responses, nil
}

func (s *knowledgeService) ReindexDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return &dto.NotFoundError{Resource: "document", Id: id}
	}

	doc.Status = "pending"
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		return err
	}
	return s.publishIndexMessage(doc.Id)
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return &dto.NotFoundError{Resource: "document", Id: id}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.KnowledgeDocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *knowledgeService) publishIndexMessage(documentId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishIndexDocumentMessage{DocumentId: documentId})
	if err != nil {
		return err
	}
	return s.pubSub.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
