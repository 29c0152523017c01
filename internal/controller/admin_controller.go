package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"sycophancy-survey-be/internal/dto"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/internal/service"
	"sycophancy-survey-be/internal/websocket"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	ServeEvents(ctx *fiber.Ctx) error
	GetParticipants(ctx *fiber.Ctx) error
	GetParticipantDetails(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	ExportJSON(ctx *fiber.Ctx) error
	ExportCSV(ctx *fiber.Ctx) error
	SeedTestData(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogById(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	hub       *websocket.Hub
	jwtGate   fiber.Handler
	jwtSecret string
}

func NewAdminController(service service.IAdminService, hub *websocket.Hub, jwtGate fiber.Handler, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		hub:       hub,
		jwtGate:   jwtGate,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("/login", c.Login)
	h.Get("/events", c.ServeEvents)

	guarded := h.Group("", c.jwtGate)
	guarded.Get("/participants", c.GetParticipants)
	guarded.Get("/participants/:id", c.GetParticipantDetails)
	guarded.Get("/stats", c.GetStats)
	guarded.Get("/export", c.ExportJSON)
	guarded.Get("/export/csv", c.ExportCSV)
	guarded.Post("/seed", c.SeedTestData)
	guarded.Get("/logs", c.GetLogs)
	guarded.Get("/logs/:id", c.GetLogById)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), req.Secret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAdminSecret) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin secret")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login success", res))
}

// ServeEvents upgrades the live dashboard feed. The token is checked
// during the handshake, before the upgrade: browsers cannot set headers
// on a websocket dial, so the query param is the primary carrier and the
// Authorization header the fallback for non-browser tooling.
func (c *adminController) ServeEvents(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "missing token"))
	}
	if err := serverutils.ParseAdminToken(tokenStr, c.jwtSecret); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "invalid token"))
	}

	if fiberws.IsWebSocketUpgrade(ctx) {
		return fiberws.New(func(conn *fiberws.Conn) {
			websocket.ServeWs(c.hub, conn)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

func (c *adminController) GetParticipants(ctx *fiber.Ctx) error {
	res, err := c.service.GetParticipants(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get participants", res))
}

func (c *adminController) GetParticipantDetails(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid participant id")
	}

	res, err := c.service.GetParticipantDetails(ctx.Context(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get participant details", res))
}

func (c *adminController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetStats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}

func (c *adminController) ExportJSON(ctx *fiber.Ctx) error {
	res, err := c.service.ExportJSON(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *adminController) ExportCSV(ctx *fiber.Ctx) error {
	csvData, err := c.service.ExportCSV(ctx.Context())
	if err != nil {
		return err
	}

	filename := "study-export-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.SendString(csvData)
}

func (c *adminController) SeedTestData(ctx *fiber.Ctx) error {
	res, err := c.service.SeedTestData(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}

func (c *adminController) GetLogById(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogById(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log", res))
}
