package controller

import (
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
	sessionRepo *memory.SessionRepository
}

func NewAuthController(authService service.IAuthService, sessionRepo *memory.SessionRepository) IAuthController {
	return &authController{
		authService: authService,
		sessionRepo: sessionRepo,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("login", c.Login)
	h.Post("logout", serverutils.JwtMiddleware, c.Logout)
	h.Get("me", serverutils.JwtMiddleware, c.Me)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	if err := c.authService.Logout(ctx.Context(), session); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success logout", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	res := c.authService.Me(ctx.Context(), session)
	return ctx.JSON(serverutils.SuccessResponse("Success get identity", res))
}
