package handler_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahyusaputra/catalog-auth-service/internal/auth/handler"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/service"
	"github.com/wahyusaputra/catalog-auth-service/internal/logging"
	"github.com/wahyusaputra/catalog-auth-service/internal/mocks"
)

// TestRegisterRoutes verifies that all routes are mounted correctly.
func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	userService := service.NewUserService(mockRepo, mockTokenService, service.NewBcryptHasher(), logging.NewJSON(io.Discard))
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/register"},
		{http.MethodPost, "/api/v1/login"},
		{http.MethodPost, "/api/v1/token"},
		{http.MethodDelete, "/api/v1/session"},
		{http.MethodGet, "/api/v1/me"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			// We only care that the route exists. A 404 means it doesn't.
			// The handlers themselves return other codes for the empty
			// request (400 for missing body, 401 for missing auth).
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}
