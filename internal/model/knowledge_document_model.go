package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeDocument struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:text;not null"`
	Source    string         `gorm:"type:text"`                              // Origin of the document (media kit, rate card, url)
	Status    string         `gorm:"type:varchar(16);default:'pending'"`     // pending -> indexed | failed
	Content   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
