package mapper

import (
	"encoding/json"
	"time"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatSessionMapper struct{}

func NewChatSessionMapper() *ChatSessionMapper {
	return &ChatSessionMapper{}
}

func (m *ChatSessionMapper) ToEntity(e *model.ChatSession) *entity.ChatSession {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        e.Id,
		Step:      e.Step,
		Slots:     jsonToSlots(e.Slots),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *ChatSessionMapper) ToModel(e *entity.ChatSession) *model.ChatSession {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ChatSession{
		Id:        e.Id,
		Step:      e.Step,
		Slots:     slotsToJSON(e.Slots),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatSessionMapper) ToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(sessions))
	for i, e := range sessions {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(e *model.ChatTurn) *entity.ChatTurn {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatTurn{
		Id:               e.Id,
		SessionId:        e.SessionId,
		UserMessage:      e.UserMessage,
		AssistantMessage: e.AssistantMessage,
		StepBefore:       e.StepBefore,
		StepAfter:        e.StepAfter,
		SlotDelta:        jsonToSlots(e.SlotDelta),
		RagUsed:          e.RagUsed,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        e.DeletedAt.Valid,
	}
}

func (m *ChatTurnMapper) ToModel(e *entity.ChatTurn) *model.ChatTurn {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ChatTurn{
		Id:               e.Id,
		SessionId:        e.SessionId,
		UserMessage:      e.UserMessage,
		AssistantMessage: e.AssistantMessage,
		StepBefore:       e.StepBefore,
		StepAfter:        e.StepAfter,
		SlotDelta:        slotsToJSON(e.SlotDelta),
		RagUsed:          e.RagUsed,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *ChatTurnMapper) ToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, e := range turns {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

// jsonToSlots decodes a jsonb column into a slot map. Corrupt or empty
// payloads decode to an empty map rather than failing the read.
func jsonToSlots(raw datatypes.JSON) map[string]string {
	slots := map[string]string{}
	if len(raw) == 0 {
		return slots
	}
	_ = json.Unmarshal(raw, &slots)
	return slots
}

func slotsToJSON(slots map[string]string) datatypes.JSON {
	if slots == nil {
		slots = map[string]string{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
