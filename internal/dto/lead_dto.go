package dto

import (
	"time"

	"github.com/google/uuid"
)

type LeadResponse struct {
	Id          uuid.UUID `json:"id"`
	SessionId   uuid.UUID `json:"session_id"`
	Company     string    `json:"company"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	BudgetTier  string    `json:"budget_tier,omitempty"`
	NeedType    string    `json:"need_type,omitempty"`
	EntryPath   string    `json:"entry_path,omitempty"`
	Message     string    `json:"message,omitempty"`
	EmailStatus string    `json:"email_status"`
	CreatedAt   time.Time `json:"created_at"`
}
