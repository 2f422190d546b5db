package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lead struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Company     string         `gorm:"type:text;not null"`
	Email       string         `gorm:"type:text"`
	Phone       string         `gorm:"type:text"`
	Sector      string         `gorm:"type:varchar(32)"`
	BudgetTier  string         `gorm:"type:varchar(16)"`
	NeedType    string         `gorm:"type:text"`
	EntryPath   string         `gorm:"type:varchar(32);index"` // Which funnel branch produced the lead
	Message     string         `gorm:"type:text"`
	Extra       datatypes.JSON `gorm:"type:jsonb"` // Remaining slots, verbatim
	EmailStatus string         `gorm:"type:varchar(16);default:'pending'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Lead) TableName() string {
	return "leads"
}
