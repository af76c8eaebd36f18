package handler

import (
	"github.com/gofiber/fiber/v2"

	autherror "github.com/wahyusaputra/catalog-auth-service/internal/errors"
	"github.com/wahyusaputra/catalog-auth-service/pkg/constant"
)

// RequireAuth resolves the Authorization bearer token to a user and stores it
// in c.Locals under constant.CtxUserKey. Every protected route goes through
// here.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return authError(c, autherror.ErrUnauthorized)
		}

		user, err := h.userService.Authenticate(c.Context(), token)
		if err != nil {
			return authError(c, err)
		}

		c.Locals(constant.CtxUserKey, user)

		return c.Next()
	}
}
