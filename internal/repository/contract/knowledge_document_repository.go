package contract

import (
	"context"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	Update(ctx context.Context, doc *entity.KnowledgeDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
