package controller

import (
	"strings"

	"doctech-be/internal/dto"
	"doctech-be/internal/pkg/logger"
	"doctech-be/internal/pkg/serverutils"
	"doctech-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type queryController struct {
	service service.IQueryService
	logger  logger.ILogger
}

func NewQueryController(service service.IQueryService, log logger.ILogger) IQueryController {
	return &queryController{service: service, logger: log}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	r.Get("/query", c.Query)
	r.Get("/health", c.Health)
}

func (c *queryController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return &dto.ValidationError{Err: err}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	// Without an utterance nothing can be classified; same answer as any
	// other unresolvable query.
	if strings.TrimSpace(req.Query) == "" {
		c.logger.Warn("QueryController", "Empty query", map[string]interface{}{
			"current_page": req.CurrentPage,
		})
		return ctx.JSON(serverutils.GenericError())
	}

	// The service already logged the cause; the client only sees the generic body.
	res, err := c.service.Resolve(ctx.UserContext(), req)
	if err != nil {
		return ctx.JSON(serverutils.GenericError())
	}
	return ctx.JSON(res)
}

func (c *queryController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "ok"})
}
