package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wahyusaputra/catalog-auth-service/internal/auth/domain"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/dto"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/service"
	autherror "github.com/wahyusaputra/catalog-auth-service/internal/errors"
	"github.com/wahyusaputra/catalog-auth-service/pkg/constant"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrUsernameTaken) || errors.Is(err, autherror.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(publicView(user))
}

// Login handles both the JSON body of /login and the form body of /token;
// BodyParser picks the decoder from the content type.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenResp, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, constant.BearerScheme)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokenResp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		c.Set(fiber.HeaderWWWAuthenticate, constant.BearerScheme)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": autherror.ErrUnauthorized.Error(),
		})
	}

	if err := h.userService.Logout(c.Context(), token); err != nil {
		return authError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the public view of the authenticated user. Record-management
// endpoints resolve the caller the same way, through RequireAuth.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals(constant.CtxUserKey).(*domain.User)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(publicView(user))
}

func publicView(user *domain.User) dto.UserOutput {
	return dto.UserOutput{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Active:   user.IsActive,
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constant.BearerScheme) || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, autherror.ErrInactiveAccount):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, autherror.ErrUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, constant.BearerScheme)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
