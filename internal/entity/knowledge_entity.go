package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeDocument struct {
	Id        uuid.UUID
	Title     string
	Source    string
	Status    string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type KnowledgeChunk struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	Content        string
	ChunkIndex     int
	TokenCount     int
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
