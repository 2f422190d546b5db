package controller

import (
	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/pkg/serverutils"
	"advertiser-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware) // back office only
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Post(":id/reindex", c.Reindex)
	h.Delete(":id", c.Delete)
}

func (c *knowledgeController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.CreateDocument(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.ListDocuments(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *knowledgeController) Reindex(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	if err := c.knowledgeService.ReindexDocument(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue reindex", nil))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	if err := c.knowledgeService.DeleteDocument(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", nil))
}
