package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatTurn struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserMessage      string         `gorm:"type:text"`
	AssistantMessage string         `gorm:"type:text"`
	StepBefore       string         `gorm:"type:varchar(64);not null"`
	StepAfter        string         `gorm:"type:varchar(64);not null"`
	SlotDelta        datatypes.JSON `gorm:"type:jsonb"`
	RagUsed          bool           `gorm:"default:false"` // Whether retrieval fed the answer
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
