package controller

import (
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	AddFiles(ctx *fiber.Ctx) error
	AddURL(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type sourceController struct {
	sourceService service.ISourceService
	sessionRepo   *memory.SessionRepository
}

func NewSourceController(sourceService service.ISourceService, sessionRepo *memory.SessionRepository) ISourceController {
	return &sourceController{
		sourceService: sourceService,
		sessionRepo:   sessionRepo,
	}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("files", c.AddFiles)
	h.Post("url", c.AddURL)
	h.Get("", c.List)
	h.Delete(":id", c.Remove)
	h.Delete("", c.Clear)
}

func (c *sourceController) AddFiles(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	form, err := ctx.MultipartForm()
	if err != nil {
		return dto.NewValidationError("expected a multipart form with a 'files' field")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return dto.NewValidationError("no files provided")
	}

	res, err := c.sourceService.AddFiles(ctx.Context(), session, files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add files", res))
}

func (c *sourceController) AddURL(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	var req dto.AddURLRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sourceService.AddURL(ctx.Context(), session, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add url", res))
}

func (c *sourceController) List(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	res := c.sourceService.List(ctx.Context(), session)
	return ctx.JSON(serverutils.SuccessResponse("Success list sources", res))
}

func (c *sourceController) Remove(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	if err := c.sourceService.Remove(ctx.Context(), session, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove source", nil))
}

func (c *sourceController) Clear(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	c.sourceService.Clear(ctx.Context(), session)
	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear sources", nil))
}
