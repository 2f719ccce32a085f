package controller

import (
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// currentSession resolves the request's chat session from the JWT locals.
// The repository recreates a session for a valid token after a restart.
func currentSession(ctx *fiber.Ctx, repo *memory.SessionRepository) *store.Session {
	sessionID, _ := ctx.Locals("session_id").(string)
	email, _ := ctx.Locals("email").(string)
	return repo.GetOrCreate(sessionID, email)
}
