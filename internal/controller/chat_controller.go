package controller

import (
	"bufio"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/pkg/relay"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Relay(ctx *fiber.Ctx) error
}

// chatController is the raw relay endpoint: the caller brings the full
// conversation and system prompt, the response is the completion streamed
// as chunked plain text.
type chatController struct {
	relay  *relay.Relay
	logger logger.ILogger
}

func NewChatController(r *relay.Relay, log logger.ILogger) IChatController {
	return &chatController{relay: r, logger: log}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/", c.Relay)
}

func (c *chatController) Relay(ctx *fiber.Ctx) error {
	var req dto.ChatRelayRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	stream, err := c.relay.Stream(
		context.Background(),
		dto.ToSurveyMessages(req.Messages),
		req.SystemPrompt,
		req.ParticipantData.ToDemographics(),
	)
	if err != nil {
		c.logger.Error("ChatController", "Upstream stream failed", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ChatRelayError{Error: "Failed to get AI response"})
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stream.Close()
		for {
			chunk, ok := stream.Recv()
			if !ok {
				break
			}
			if _, err := w.WriteString(chunk); err != nil {
				return
			}
			_ = w.Flush()
		}
		if err := stream.Err(); err != nil {
			c.logger.Warn("ChatController", "Stream ended with error", map[string]interface{}{"error": err.Error()})
		}
	}))
	return nil
}
