package controller

import (
	"bufio"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/internal/service"
)

// clientKeyHeader identifies the browser session driving the wizard.
const clientKeyHeader = "X-Survey-Client"

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	Consent(ctx *fiber.Ctx) error
	Demographics(ctx *fiber.Ctx) error
	StartChallenge(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	CompleteChallenge(ctx *fiber.Ctx) error
	SubmitRating(ctx *fiber.Ctx) error
	SubmitFinal(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type workflowController struct {
	service service.IWorkflowService
}

func NewWorkflowController(service service.IWorkflowService) IWorkflowController {
	return &workflowController{service: service}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Get("/state", c.State)
	h.Post("/consent", c.Consent)
	h.Post("/demographics", c.Demographics)
	h.Post("/challenge/start", c.StartChallenge)
	h.Post("/challenge/message", c.SendMessage)
	h.Post("/challenge/complete", c.CompleteChallenge)
	h.Post("/rating", c.SubmitRating)
	h.Post("/final", c.SubmitFinal)
	h.Post("/reset", c.Reset)
}

func clientKey(ctx *fiber.Ctx) (string, error) {
	key := ctx.Get(clientKeyHeader)
	if key == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing "+clientKeyHeader+" header")
	}
	return key, nil
}

func (c *workflowController) State(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.State(ctx.Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get state", res))
}

func (c *workflowController) Consent(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Consent(ctx.Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consent recorded", res))
}

func (c *workflowController) Demographics(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateParticipantRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Demographics(ctx.Context(), key, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Demographics saved", res))
}

func (c *workflowController) StartChallenge(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.StartChallenge(ctx.Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Challenge started", res))
}

// SendMessage streams the agent reply as chunked plain text. The service
// runs in a goroutine feeding a channel; the handler waits for the first
// chunk so pre-stream failures still map to proper status codes. The
// stream context outlives the handler (the body writer runs after it
// returns) and is cancelled when the writer exits, which aborts the
// upstream completion request for a client that went away.
func (c *workflowController) SendMessage(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	chunks := make(chan string, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(chunks)
		errCh <- c.service.SendMessage(streamCtx, key, req, func(chunk string) {
			select {
			case chunks <- chunk:
			case <-streamCtx.Done():
			}
		})
	}()

	var first string
	select {
	case chunk, ok := <-chunks:
		if !ok {
			cancel()
			return <-errCh
		}
		first = chunk
	case err := <-errCh:
		if err != nil {
			cancel()
			return err
		}
		// Service finished without producing output.
		first, _ = <-chunks
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// On any exit, early or not, release the upstream request and
		// drain the channel so the producer can never block on a dead
		// reader.
		defer func() {
			cancel()
			for range chunks {
			}
		}()
		if _, err := w.WriteString(first); err != nil {
			return
		}
		_ = w.Flush()
		for chunk := range chunks {
			if _, err := w.WriteString(chunk); err != nil {
				return
			}
			_ = w.Flush()
		}
	}))
	return nil
}

func (c *workflowController) CompleteChallenge(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	// The body is optional; without one the driver's conversations are
	// used.
	var req *dto.CompleteChallengeRequest
	if len(ctx.Body()) > 0 {
		req = &dto.CompleteChallengeRequest{}
		if err := serverutils.ParseAndValidate(ctx, req); err != nil {
			return err
		}
	}

	res, err := c.service.CompleteChallenge(ctx.Context(), key, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Challenge completed", res))
}

func (c *workflowController) SubmitRating(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	var req dto.WorkflowRatingRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitRating(ctx.Context(), key, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Rating submitted", res))
}

func (c *workflowController) SubmitFinal(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveFinalRatingsRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitFinal(ctx.Context(), key, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Final ratings submitted", res))
}

func (c *workflowController) Reset(ctx *fiber.Ctx) error {
	key, err := clientKey(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Reset(ctx.Context(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reset", res))
}
