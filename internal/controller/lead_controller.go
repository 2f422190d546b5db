package controller

import (
	"advertiser-chatbot-be/internal/pkg/serverutils"
	"advertiser-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILeadController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type leadController struct {
	leadService service.ILeadService
}

func NewLeadController(leadService service.ILeadService) ILeadController {
	return &leadController{
		leadService: leadService,
	}
}

func (c *leadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lead/v1")
	h.Use(serverutils.JwtMiddleware) // back office only
	h.Get("", c.List)
}

func (c *leadController) List(ctx *fiber.Ctx) error {
	res, err := c.leadService.GetLeads(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list leads", res))
}
