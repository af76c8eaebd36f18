package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	// Form-encoded variant of login, kept for OAuth2 password-flow clients.
	app.Post("/api/v1/token", h.Login)
	app.Delete("/api/v1/session", h.Logout)

	app.Get("/api/v1/me", h.RequireAuth(), h.Me)
}
