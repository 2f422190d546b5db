package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	Company     string
	Email       string
	Phone       string
	Sector      string
	BudgetTier  string
	NeedType    string
	EntryPath   string
	Message     string
	Extra       map[string]string
	EmailStatus string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
