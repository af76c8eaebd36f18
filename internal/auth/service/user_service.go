package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wahyusaputra/catalog-auth-service/internal/auth/domain"
	"github.com/wahyusaputra/catalog-auth-service/internal/auth/dto"
	autherror "github.com/wahyusaputra/catalog-auth-service/internal/errors"
	"github.com/wahyusaputra/catalog-auth-service/internal/logging"
	"github.com/wahyusaputra/catalog-auth-service/pkg/constant"
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	hasher       PasswordHasher
	log          logging.Logger

	// loginLocks holds one *sync.Mutex per username so two logins racing past
	// the live-token lookup cannot both persist a fresh token. Entries are
	// never removed; the map is bounded by the number of principals.
	loginLocks sync.Map
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, hasher PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		hasher:       hasher,
		log:          log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrUsernameTaken
	}

	existing, err = s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailTaken
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "username", user.Username)

	return user, nil
}

// Login authenticates the user and returns an access token. While a live
// token exists for the user, that token is returned unchanged; a new one is
// minted only when none is live. Logins for the same username run one at a
// time, but every caller verifies its own credentials.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	mu, _ := s.loginLocks.LoadOrStore(input.Username, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	return s.login(ctx, input)
}

func (s *UserService) login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	// Same error for an unknown username and a wrong password.
	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	now := time.Now()

	existing, err := s.repo.FindLiveTokenByUsername(ctx, user.Username, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.TokenResponse{
			AccessToken: existing.AccessToken,
			TokenType:   constant.TokenType,
		}, nil
	}

	accessToken, expiresAt, err := s.tokenService.Generate(user.Username)
	if err != nil {
		return nil, err
	}

	token := &domain.Token{
		ID:          uuid.New().String(),
		Username:    user.Username,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}

	if err := s.repo.StoreToken(ctx, token); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "access token issued", "username", user.Username, "expires_at", expiresAt)

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   constant.TokenType,
	}, nil
}

// Authenticate resolves a bearer token string to its user. The token store
// row, not the token's embedded exp claim, decides whether the token is still
// live.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, autherror.ErrUnauthorized
	}

	if claims.Subject == "" {
		return nil, autherror.ErrUnauthorized
	}

	user, err := s.repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUnauthorized
	}

	stored, err := s.repo.FindValidToken(ctx, accessToken, time.Now())
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, autherror.ErrUnauthorized
	}

	if !user.IsActive {
		return nil, autherror.ErrInactiveAccount
	}

	return user, nil
}

// Logout revokes the presented token by deleting its store row. The token's
// signature stays valid but Authenticate will reject it from here on.
func (s *UserService) Logout(ctx context.Context, accessToken string) error {
	user, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteToken(ctx, accessToken); err != nil {
		return err
	}

	s.log.Info(ctx, "access token revoked", "username", user.Username)

	return nil
}
