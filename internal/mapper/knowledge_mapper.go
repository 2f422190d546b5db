package mapper

import (
	"time"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeDocumentMapper struct{}

func NewKnowledgeDocumentMapper() *KnowledgeDocumentMapper {
	return &KnowledgeDocumentMapper{}
}

func (m *KnowledgeDocumentMapper) ToEntity(e *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeDocument{
		Id:        e.Id,
		Title:     e.Title,
		Source:    e.Source,
		Status:    e.Status,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *KnowledgeDocumentMapper) ToModel(e *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.KnowledgeDocument{
		Id:        e.Id,
		Title:     e.Title,
		Source:    e.Source,
		Status:    e.Status,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToEntities(docs []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, e := range docs {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type KnowledgeChunkMapper struct{}

func NewKnowledgeChunkMapper() *KnowledgeChunkMapper {
	return &KnowledgeChunkMapper{}
}

func (m *KnowledgeChunkMapper) ToEntity(e *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeChunk{
		Id:             e.Id,
		DocumentId:     e.DocumentId,
		Content:        e.Content,
		ChunkIndex:     e.ChunkIndex,
		TokenCount:     e.TokenCount,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *KnowledgeChunkMapper) ToModel(e *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.KnowledgeChunk{
		Id:             e.Id,
		DocumentId:     e.DocumentId,
		Content:        e.Content,
		ChunkIndex:     e.ChunkIndex,
		TokenCount:     e.TokenCount,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *KnowledgeChunkMapper) ToEntities(chunks []*model.KnowledgeChunk) []*entity.KnowledgeChunk {
	entities := make([]*entity.KnowledgeChunk, len(chunks))
	for i, e := range chunks {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *KnowledgeChunkMapper) ToModels(chunks []*entity.KnowledgeChunk) []*model.KnowledgeChunk {
	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, e := range chunks {
		models[i] = m.ToModel(e)
	}
	return models
}
