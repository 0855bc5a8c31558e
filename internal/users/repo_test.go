package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	require.NoError(t, db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username);`).Error)

	return db
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{
		Username:     "tamara",
		Email:        "tamara@example.com",
		PasswordHash: "argon2id$hash",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byName, err := repo.FindByUsername(ctx, "tamara")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "tamara@example.com", byID.Email)

	_, err = repo.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryUsernameUnique(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "tamara", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "tamara", PasswordHash: "h2"})
	require.Error(t, err)
}

func TestUserRepositoryTouchLastLogin(t *testing.T) {
	repo := NewRepository(setupUserTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Username: "tamara", PasswordHash: "h"})
	require.NoError(t, err)
	require.Nil(t, created.LastLoginAt)

	at := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, created.ID, at))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	require.True(t, reloaded.LastLoginAt.Equal(at))
}
