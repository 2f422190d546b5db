package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content        string          `gorm:"type:text"`
	ChunkIndex     int             `gorm:"default:0"` // 0-based index for ordering
	TokenCount     int             `gorm:"default:0"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
