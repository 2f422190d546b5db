package unitofwork

import (
	"context"

	"advertiser-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatTurnRepository() contract.ChatTurnRepository
	LeadRepository() contract.LeadRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
