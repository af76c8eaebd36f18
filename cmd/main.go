package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/wahyusaputra/catalog-auth-service/config"
	"github.com/wahyusaputra/catalog-auth-service/db"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/handler"
	repo "github.com/wahyusaputra/catalog-auth-service/internal/auth/repository/postgres"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/service"
	"github.com/wahyusaputra/catalog-auth-service/internal/logging"
)

func main() {
	ctx := context.Background()
	log := logging.NewJSON(os.Stdout).With("service", "catalog-auth")

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin)
	hasher := service.NewBcryptHasher()
	userService := service.NewUserService(userRepo, tokenService, hasher, log)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Info(ctx, "starting server", "port", cfg.Port, "env", cfg.Env,
		"token_lifetime", tokenService.GetAccessTokenExpiry())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
