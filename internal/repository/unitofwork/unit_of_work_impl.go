package unitofwork

import (
	"context"
	"fmt"

	"advertiser-chatbot-be/internal/repository/contract"
	"advertiser-chatbot-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // The active transaction (nil outside a transaction)
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) ChatSessionRepository() contract.ChatSessionRepository {
	return implementation.NewChatSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatTurnRepository() contract.ChatTurnRepository {
	return implementation.NewChatTurnRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LeadRepository() contract.LeadRepository {
	return implementation.NewLeadRepository(u.getDB())
}

func (u *UnitOfWorkImpl) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return implementation.NewKnowledgeDocumentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return implementation.NewKnowledgeChunkRepository(u.getDB())
}
