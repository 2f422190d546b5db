package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Id               uuid.UUID
	SessionId        uuid.UUID
	UserMessage      string
	AssistantMessage string
	StepBefore       string
	StepAfter        string
	SlotDelta        map[string]string
	RagUsed          bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
