package serverutils

import (
	"errors"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/rag/answer"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts typed domain errors into HTTP responses.
// Everything that crosses this boundary becomes a plain message string.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *dto.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, validationErr.Message))
		}

		var upstreamErr *answer.UpstreamError
		if errors.As(err, &upstreamErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, upstreamErr.Error()))
		}

		var formatErr *answer.ResponseFormatError
		if errors.As(err, &formatErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, formatErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
