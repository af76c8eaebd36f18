package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahyusaputra/catalog-auth-service/internal/auth/domain"
	repo "github.com/wahyusaputra/catalog-auth-service/internal/auth/repository/postgres"
	autherror "github.com/wahyusaputra/catalog-auth-service/internal/errors"
)

var userColumns = []string{"id", "username", "email", "password_hash", "is_active", "created_at", "updated_at"}

var tokenColumns = []string{"id", "username", "access_token", "expires_at", "created_at"}

// TestGetByUsername covers the GetByUsername repository method.
func TestGetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, email").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", "alice", "alice@x.com", "hash", true, time.Now(), time.Now()))

		user, err := r.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, email").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByUsername(ctx, "ghost")
		require.NoError(t, err) // Should return nil user, nil error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, email").
			WithArgs("alice").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByUsername(ctx, "alice")
		assert.Error(t, err)
	})
}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, email").
			WithArgs("alice@x.com").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", "alice", "alice@x.com", "hash", true, time.Now(), time.Now()))

		user, err := r.GetByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice@x.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, email").
			WithArgs("nobody@x.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestCreate covers the Create repository method, including the mapping of
// unique-constraint violations to domain errors.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-123",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.Create(ctx, user)
		assert.NoError(t, err)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrUsernameTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailTaken)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))

		err := r.Create(ctx, user)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, autherror.ErrUsernameTaken)
	})
}

// TestStoreToken covers the StoreToken repository method.
func TestStoreToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	token := &domain.Token{
		ID:          "token-1",
		Username:    "alice",
		AccessToken: "signed-token",
		ExpiresAt:   time.Now().Add(240 * time.Minute),
		CreatedAt:   time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO tokens").
			WithArgs(token.ID, token.Username, token.AccessToken, token.ExpiresAt, token.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.StoreToken(ctx, token)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO tokens").
			WithArgs(token.ID, token.Username, token.AccessToken, token.ExpiresAt, token.CreatedAt).
			WillReturnError(fmt.Errorf("db error"))

		err := r.StoreToken(ctx, token)
		assert.Error(t, err)
	})
}

// TestFindValidToken covers the authoritative liveness lookup.
func TestFindValidToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("live row", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, access_token").
			WithArgs("signed-token", now).
			WillReturnRows(pgxmock.NewRows(tokenColumns).
				AddRow("token-1", "alice", "signed-token", now.Add(time.Hour), now.Add(-time.Hour)))

		token, err := r.FindValidToken(ctx, "signed-token", now)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "signed-token", token.AccessToken)
	})

	t.Run("expired or missing row", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, access_token").
			WithArgs("stale-token", now).
			WillReturnError(pgx.ErrNoRows)

		token, err := r.FindValidToken(ctx, "stale-token", now)
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, access_token").
			WithArgs("signed-token", now).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.FindValidToken(ctx, "signed-token", now)
		assert.Error(t, err)
	})
}

// TestFindLiveTokenByUsername covers the login reuse lookup.
func TestFindLiveTokenByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("live token exists", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, access_token").
			WithArgs("alice", now).
			WillReturnRows(pgxmock.NewRows(tokenColumns).
				AddRow("token-1", "alice", "signed-token", now.Add(time.Hour), now.Add(-time.Hour)))

		token, err := r.FindLiveTokenByUsername(ctx, "alice", now)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "alice", token.Username)
	})

	t.Run("no live token", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, access_token").
			WithArgs("alice", now).
			WillReturnError(pgx.ErrNoRows)

		token, err := r.FindLiveTokenByUsername(ctx, "alice", now)
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}

// TestDeleteToken covers the DeleteToken repository method.
func TestDeleteToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM tokens").
			WithArgs("signed-token").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := r.DeleteToken(ctx, "signed-token")
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM tokens").
			WithArgs("signed-token").
			WillReturnError(fmt.Errorf("db error"))

		err := r.DeleteToken(ctx, "signed-token")
		assert.Error(t, err)
	})
}
