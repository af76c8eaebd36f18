package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/wahyusaputra/catalog-auth-service/internal/auth/domain UserRepository

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	StoreToken(ctx context.Context, token *Token) error
	FindValidToken(ctx context.Context, accessToken string, now time.Time) (*Token, error)
	FindLiveTokenByUsername(ctx context.Context, username string, now time.Time) (*Token, error)
	DeleteToken(ctx context.Context, accessToken string) error
}
