package implementation

import (
	"context"
	"errors"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/mapper"
	"advertiser-chatbot-be/internal/model"
	"advertiser-chatbot-be/internal/repository/contract"
	"advertiser-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeChunkMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.KnowledgeChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeChunkMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.KnowledgeChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	models := r.mapper.ToModels(chunks)

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *KnowledgeChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.KnowledgeChunk{}, id).Error
}

func (r *KnowledgeChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.KnowledgeChunk{}).Error
}

func (r *KnowledgeChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeChunk, error) {
	var m model.KnowledgeChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	var models []*model.KnowledgeChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *KnowledgeChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.KnowledgeChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns chunks with similarity scores, filtered by threshold
func (r *KnowledgeChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	if limit <= 0 {
		limit = 4
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.KnowledgeChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select("knowledge_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN knowledge_documents ON knowledge_documents.id = knowledge_chunks.document_id").
		Where("knowledge_documents.status = ?", "indexed").
		Where("knowledge_chunks.deleted_at IS NULL").
		Where("knowledge_documents.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scoredChunks := make([]*contract.ScoredKnowledgeChunk, len(results))
	for i, res := range results {
		chunk := r.mapper.ToEntity(&res.KnowledgeChunk)
		scoredChunks[i] = &contract.ScoredKnowledgeChunk{
			Chunk:      chunk,
			Similarity: res.Similarity,
		}
	}
	return scoredChunks, nil
}
