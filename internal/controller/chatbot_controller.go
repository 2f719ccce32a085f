package controller

import (
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	sessionRepo    *memory.SessionRepository
}

func NewChatbotController(chatbotService service.IChatbotService, sessionRepo *memory.SessionRepository) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		sessionRepo:    sessionRepo,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ask", c.Ask)
	h.Get("history", c.GetHistory)
	h.Post("new", c.NewChat)
}

func (c *chatbotController) Ask(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.chatbotService.Ask(ctx.Context(), session, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask", res))
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	res := c.chatbotService.GetHistory(ctx.Context(), session)
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatbotController) NewChat(ctx *fiber.Ctx) error {
	session := currentSession(ctx, c.sessionRepo)

	c.chatbotService.NewChat(ctx.Context(), session)
	return ctx.JSON(serverutils.SuccessResponse[any]("Success start new chat", nil))
}
