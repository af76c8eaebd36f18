package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wahyusaputra/catalog-auth-service/internal/auth/domain"
	autherror "github.com/wahyusaputra/catalog-auth-service/internal/errors"
)

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE username = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// The service checks for duplicates up front, but the constraint closes
		// the window between check and insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return autherror.ErrUsernameTaken
			case "users_email_key":
				return autherror.ErrEmailTaken
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) StoreToken(ctx context.Context, token *domain.Token) error {
	query := `INSERT INTO tokens (id, username, access_token, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		token.ID, token.Username, token.AccessToken, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// FindValidToken returns the stored row for accessToken only while its
// expires_at is still ahead of now. This is the authoritative liveness check.
func (r *PostgresRepository) FindValidToken(ctx context.Context, accessToken string, now time.Time) (*domain.Token, error) {
	query := `
		SELECT id, username, access_token, expires_at, created_at
		FROM tokens
		WHERE access_token = $1 AND expires_at > $2
		LIMIT 1;
	`
	return r.scanToken(r.db.QueryRow(ctx, query, accessToken, now))
}

func (r *PostgresRepository) FindLiveTokenByUsername(ctx context.Context, username string, now time.Time) (*domain.Token, error) {
	query := `
		SELECT id, username, access_token, expires_at, created_at
		FROM tokens
		WHERE username = $1 AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	return r.scanToken(r.db.QueryRow(ctx, query, username, now))
}

func (r *PostgresRepository) scanToken(row pgx.Row) (*domain.Token, error) {
	var token domain.Token
	err := row.Scan(&token.ID, &token.Username, &token.AccessToken,
		&token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return &token, nil
}

func (r *PostgresRepository) DeleteToken(ctx context.Context, accessToken string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE access_token = $1`, accessToken)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
