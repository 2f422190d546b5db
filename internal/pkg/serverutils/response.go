package serverutils

import (
	"errors"

	"advertiser-chatbot-be/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct validation on a parsed request body.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware translates domain errors into HTTP statuses.
// A turn conflict is a 409, a missing resource a 404, anything unexpected
// a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var inFlight *dto.TurnInFlightError
		if errors.As(err, &inFlight) {
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(inFlight.Error()))
		}

		var notFound *dto.NotFoundError
		if errors.As(err, &notFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(notFound.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
