package controller

import (
	"bufio"
	"context"
	"time"

	"advertiser-chatbot-be/internal/dto"
	"advertiser-chatbot-be/internal/pkg/serverutils"
	"advertiser-chatbot-be/internal/service"
	"advertiser-chatbot-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	StreamMessage(ctx *fiber.Ctx) error
	GetTurns(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	pingInterval   time.Duration
}

func NewChatbotController(chatbotService service.IChatbotService, pingInterval time.Duration) IChatbotController {
	if pingInterval <= 0 {
		pingInterval = 15 * time.Second
	}
	return &chatbotController{
		chatbotService: chatbotService,
		pingInterval:   pingInterval,
	}
}

// The chat widget is anonymous: no JWT on these routes.
func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot/v1")
	h.Post("session", c.CreateSession)
	h.Post("message", c.SendMessage)
	h.Post("stream", c.StreamMessage)
	h.Get("session/:id/turns", c.GetTurns)
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatbotController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendMessage(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

// StreamMessage answers one turn over SSE: meta, then tokens, then exactly
// one final or error frame. Ping frames interleave on a fixed interval to
// keep proxies from cutting an idle connection.
func (c *chatbotController) StreamMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Start the turn before hijacking the body stream so contract errors
	// (unknown session, turn already in flight) still map to JSON errors.
	streamCtx, cancel := context.WithCancel(context.Background())
	events, err := c.chatbotService.StreamMessage(streamCtx, req)
	if err != nil {
		cancel()
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	interval := c.pingInterval
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			// Cancelling stops generation; draining lets the producer finish
			// and release the session lock.
			cancel()
			for range events {
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		writeTurnStream(w, events, ticker.C)
	}))

	return nil
}

// writeTurnStream copies turn events onto the wire as SSE frames, inserting
// ping frames between them. It returns as soon as the terminal frame is
// written: nothing, ping included, may follow a final or error frame.
func writeTurnStream(w *bufio.Writer, events <-chan stream.Event, pings <-chan time.Time) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			frame, err := stream.FormatSSE(e)
			if err != nil {
				continue
			}
			if _, err := w.WriteString(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if e.Name == stream.EventFinal || e.Name == stream.EventError {
				return
			}
		case <-pings:
			if _, err := w.WriteString(stream.Ping()); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func (c *chatbotController) GetTurns(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.chatbotService.GetTurns(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get turns", res))
}
