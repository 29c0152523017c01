package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/internal/service"
)

type ISurveyController interface {
	RegisterRoutes(r fiber.Router)
	CreateParticipant(ctx *fiber.Ctx) error
	GetChallenges(ctx *fiber.Ctx) error
	GetChallenge(ctx *fiber.Ctx) error
	InitializeChallenges(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	SaveConversations(ctx *fiber.Ctx) error
	SaveChallengeRating(ctx *fiber.Ctx) error
	CompleteSession(ctx *fiber.Ctx) error
	SaveFinalRatings(ctx *fiber.Ctx) error
	GetParticipantSessions(ctx *fiber.Ctx) error
}

type surveyController struct {
	service service.ISurveyService
}

func NewSurveyController(service service.ISurveyService) ISurveyController {
	return &surveyController{service: service}
}

func (c *surveyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/survey/v1")
	h.Post("/participant", c.CreateParticipant)
	h.Get("/challenges", c.GetChallenges)
	h.Get("/challenges/:number", c.GetChallenge)
	h.Post("/challenges/init", c.InitializeChallenges)
	h.Post("/session", c.CreateSession)
	h.Post("/session/:id/conversations", c.SaveConversations)
	h.Post("/session/:id/complete", c.CompleteSession)
	h.Post("/rating", c.SaveChallengeRating)
	h.Post("/participant/:id/final-ratings", c.SaveFinalRatings)
	h.Get("/participant/:id/sessions", c.GetParticipantSessions)
}

func (c *surveyController) CreateParticipant(ctx *fiber.Ctx) error {
	var req dto.CreateParticipantRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateParticipant(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Participant created", res))
}

func (c *surveyController) GetChallenges(ctx *fiber.Ctx) error {
	res, err := c.service.GetChallenges(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get challenges", res))
}

func (c *surveyController) GetChallenge(ctx *fiber.Ctx) error {
	number, err := ctx.ParamsInt("number")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid challenge number")
	}

	res, err := c.service.GetChallengeByNumber(ctx.Context(), number)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get challenge", res))
}

func (c *surveyController) InitializeChallenges(ctx *fiber.Ctx) error {
	res, err := c.service.InitializeChallenges(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *surveyController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *surveyController) SaveConversations(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.SaveConversationsRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.service.SaveConversations(ctx.Context(), sessionId, req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations saved", dto.MessageResponse{Message: "saved"}))
}

func (c *surveyController) SaveChallengeRating(ctx *fiber.Ctx) error {
	var req dto.SaveChallengeRatingRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.service.SaveChallengeRating(ctx.Context(), req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Rating saved", dto.MessageResponse{Message: "saved"}))
}

func (c *surveyController) CompleteSession(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := c.service.CompleteSession(ctx.Context(), sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session completed", dto.MessageResponse{Message: "completed"}))
}

func (c *surveyController) SaveFinalRatings(ctx *fiber.Ctx) error {
	participantId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid participant id")
	}

	var req dto.SaveFinalRatingsRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	if err := c.service.SaveFinalRatings(ctx.Context(), participantId, dto.ToRatingAnswers(req.Ratings)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Final ratings saved", dto.MessageResponse{Message: "saved"}))
}

func (c *surveyController) GetParticipantSessions(ctx *fiber.Ctx) error {
	participantId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid participant id")
	}

	res, err := c.service.GetParticipantSessions(ctx.Context(), participantId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}
