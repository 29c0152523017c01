package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/pkg/survey"
)

// ErrorHandlerMiddleware maps domain errors to HTTP envelopes after the
// handler chain runs. Handlers return plain errors; this is the single
// place that knows their status codes.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "internal server error"

		var validationErr *ValidationError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &validationErr):
			code = fiber.StatusBadRequest
			message = validationErr.Error()
		case errors.Is(err, survey.ErrInvalidDemographics),
			errors.Is(err, survey.ErrInvalidRating),
			errors.Is(err, survey.ErrEmptyConversation):
			code = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, survey.ErrInvalidTransition),
			errors.Is(err, survey.ErrSessionComplete):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, survey.ErrQuestionLimit):
			code = fiber.StatusTooManyRequests
			message = err.Error()
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = fiber.StatusNotFound
			message = "resource not found"
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("http", "unhandled error", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
