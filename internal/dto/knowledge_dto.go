package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Source  string `json:"source,omitempty" validate:"max=300"`
	Content string `json:"content" validate:"required"`
}

// PublishIndexDocumentMessage is the payload queued for the indexing worker
type PublishIndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type DocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source,omitempty"`
	Status     string    `json:"status"`
	ChunkCount int64     `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
