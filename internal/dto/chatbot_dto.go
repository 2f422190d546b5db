package dto

import (
	"fmt"
	"time"

	"advertiser-chatbot-be/pkg/dialogue"
	"advertiser-chatbot-be/pkg/stream"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Step      string            `json:"step"`
	Message   string            `json:"message"`
	Buttons   []dialogue.Button `json:"buttons"`
}

type SendMessageRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message,omitempty" validate:"max=2000"`
	ButtonId  string    `json:"button_id,omitempty" validate:"max=64"`
}

type SendMessageResponse struct {
	AssistantMessage string              `json:"assistant_message"`
	State            stream.StatePayload `json:"state"`
	Buttons          []dialogue.Button   `json:"buttons"`
	Route            string              `json:"route"`
	RagEmptyFactual  bool                `json:"rag_empty_factual"`
}

type GetTurnsResponse struct {
	Id               uuid.UUID         `json:"id"`
	UserMessage      string            `json:"user_message"`
	AssistantMessage string            `json:"assistant_message"`
	StepBefore       string            `json:"step_before"`
	StepAfter        string            `json:"step_after"`
	SlotDelta        map[string]string `json:"slot_delta,omitempty"`
	RagUsed          bool              `json:"rag_used"`
	CreatedAt        time.Time         `json:"created_at"`
}

// --- Domain Error Types ---

// TurnInFlightError rejects a second concurrent turn on the same session
type TurnInFlightError struct {
	SessionId uuid.UUID
}

func (e *TurnInFlightError) Error() string {
	return "a turn is already in flight for this session"
}

// NotFoundError marks a missing resource
type NotFoundError struct {
	Resource string
	Id       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Id)
}
