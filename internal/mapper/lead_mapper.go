package mapper

import (
	"time"

	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/model"

	"gorm.io/gorm"
)

type LeadMapper struct{}

func NewLeadMapper() *LeadMapper {
	return &LeadMapper{}
}

func (m *LeadMapper) ToEntity(e *model.Lead) *entity.Lead {
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

	return &entity.Lead{
		Id:          e.Id,
		SessionId:   e.SessionId,
		Company:     e.Company,
		Email:       e.Email,
		Phone:       e.Phone,
		Sector:      e.Sector,
		BudgetTier:  e.BudgetTier,
		NeedType:    e.NeedType,
		EntryPath:   e.EntryPath,
		Message:     e.Message,
		Extra:       jsonToSlots(e.Extra),
		EmailStatus: e.EmailStatus,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   e.DeletedAt.Valid,
	}
}

func (m *LeadMapper) ToModel(e *entity.Lead) *model.Lead {
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

	return &model.Lead{
		Id:          e.Id,
		SessionId:   e.SessionId,
		Company:     e.Company,
		Email:       e.Email,
		Phone:       e.Phone,
		Sector:      e.Sector,
		BudgetTier:  e.BudgetTier,
		NeedType:    e.NeedType,
		EntryPath:   e.EntryPath,
		Message:     e.Message,
		Extra:       slotsToJSON(e.Extra),
		EmailStatus: e.EmailStatus,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *LeadMapper) ToEntities(leads []*model.Lead) []*entity.Lead {
	entities := make([]*entity.Lead, len(leads))
	for i, e := range leads {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
