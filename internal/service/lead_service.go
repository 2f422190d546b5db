// FILE: internal/service/lead_service.go
package service

import (
	"context"
	"encoding/json"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/entity"
	"advertiser-chatbot-be/internal/pkg/logger"
	"advertiser-chatbot-be/internal/pkg/mailer"
	"advertiser-chatbot-be/internal/repository/specification"
	"advertiser-chatbot-be/internal/repository/unitofwork"
	"advertiser-chatbot-be/pkg/dialogue"
	"advertiser-chatbot-be/pkg/events"
	"advertiser-chatbot-be/pkg/nats"

	"github.com/google/uuid"
)

// Broadcaster pushes a payload to connected operator clients.
type Broadcaster interface {
	Broadcast(message []byte)
}

type ILeadService interface {
	// CaptureLead persists the lead built from a completed session and
	// fans out notifications (email, event bus, operator feed).
	CaptureLead(ctx context.Context, session *entity.ChatSession) (*entity.Lead, error)
	GetLeads(ctx context.Context) ([]dto.LeadResponse, error)
}

type leadService struct {
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	publisher  *nats.Publisher
	hub        Broadcaster
	logger     logger.ILogger
}

func NewLeadService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisher *nats.Publisher,
	hub Broadcaster,
	log logger.ILogger,
) ILeadService {
	return &leadService{
		uowFactory: uowFactory,
		mailer:     emailService,
		publisher:  publisher,
		hub:        hub,
		logger:     log,
	}
}

func (s *leadService) CaptureLead(ctx context.Context, session *entity.ChatSession) (*entity.Lead, error) {
	lead := leadFromSession(session)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.LeadRepository().Create(ctx, lead); err != nil {
		return nil, err
	}

	// Email failure must not lose the lead: the row is already stored,
	// only the status reflects the miss.
	if err := s.mailer.SendLeadNotification(lead); err != nil {
		lead.EmailStatus = "failed"
		s.logger.Error("lead_service", "lead notification email failed", map[string]interface{}{
			"lead_id": lead.Id.String(),
			"error":   err.Error(),
		})
	} else {
		lead.EmailStatus = "sent"
	}
	if err := uow.LeadRepository().Update(ctx, lead); err != nil {
		s.logger.Warn("lead_service", "failed to update email status", map[string]interface{}{
			"lead_id": lead.Id.String(),
			"error":   err.Error(),
		})
	}

	s.notify(ctx, lead)
	return lead, nil
}

func (s *leadService) notify(ctx context.Context, lead *entity.Lead) {
	event := events.NewLeadCapturedEvent(lead.Id, lead.SessionId, lead.Company, lead.EntryPath)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("lead_service", "failed to publish lead event", map[string]interface{}{
				"lead_id": lead.Id.String(),
				"error":   err.Error(),
			})
		}
		// The operator feed is fed by the NATS subscriber in this case.
		return
	}

	// No event bus: push to the feed directly.
	if s.hub != nil {
		if payload, err := json.Marshal(event.Payload()); err == nil {
			s.hub.Broadcast(payload)
		}
	}
}

func (s *leadService) GetLeads(ctx context.Context) ([]dto.LeadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	leads, err := uow.LeadRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LeadResponse, len(leads))
	for i, lead := range leads {
		responses[i] = dto.LeadResponse{
			Id:          lead.Id,
			SessionId:   lead.SessionId,
			Company:     lead.Company,
			Email:       lead.Email,
			Phone:       lead.Phone,
			Sector:      lead.Sector,
			BudgetTier:  lead.BudgetTier,
			NeedType:    lead.NeedType,
			EntryPath:   lead.EntryPath,
			Message:     lead.Message,
			EmailStatus: lead.EmailStatus,
			CreatedAt:   lead.CreatedAt,
		}
	}
	return responses, nil
}

// leadFromSession maps the qualification slots onto a lead row. Slots
// without a dedicated column land in Extra, nothing is dropped.
func leadFromSession(session *entity.ChatSession) *entity.Lead {
	slots := session.Slots
	if slots == nil {
		slots = map[string]string{}
	}

	known := map[string]bool{
		dialogue.SlotCompany: true, dialogue.SlotEmail: true,
		dialogue.SlotPhone: true, dialogue.SlotSector: true,
		dialogue.SlotBudgetTier: true, dialogue.SlotNeedType: true,
		dialogue.SlotEntryPath: true, dialogue.SlotMessage: true,
	}
	extra := map[string]string{}
	for k, v := range slots {
		if !known[k] {
			extra[k] = v
		}
	}

	return &entity.Lead{
		Id:          uuid.New(),
		SessionId:   session.Id,
		Company:     slots[dialogue.SlotCompany],
		Email:       slots[dialogue.SlotEmail],
		Phone:       slots[dialogue.SlotPhone],
		Sector:      slots[dialogue.SlotSector],
		BudgetTier:  slots[dialogue.SlotBudgetTier],
		NeedType:    slots[dialogue.SlotNeedType],
		EntryPath:   slots[dialogue.SlotEntryPath],
		Message:     slots[dialogue.SlotMessage],
		Extra:       extra,
		EmailStatus: "pending",
	}
}
