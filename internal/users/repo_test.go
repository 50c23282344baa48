package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/procureflow/procureflow-backend/pkg/db/models"
	"github.com/procureflow/procureflow-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:users_repo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(`DELETE FROM users`).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string, role enums.Role, active bool, created time.Time) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Role:         role,
		IsActive:     active,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryCreateAndFindByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "Casey@Example.com",
		PasswordHash: "hash",
		Name:         "Casey",
		Role:         enums.RoleBuyer,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "casey@example.com", created.Email)
	assert.True(t, created.IsActive)

	found, err := repo.FindByEmail(ctx, "CASEY@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepositoryFindActiveByRoleAndID(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seller := newUser(t, db, "seller@example.com", enums.RoleSeller, true, now)
	inactive := newUser(t, db, "gone@example.com", enums.RoleSeller, false, now)
	buyer := newUser(t, db, "buyer@example.com", enums.RoleBuyer, true, now)

	found, err := repo.FindActiveByRoleAndID(ctx, enums.RoleSeller, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, found.ID)

	_, err = repo.FindActiveByRoleAndID(ctx, enums.RoleSeller, inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindActiveByRoleAndID(ctx, enums.RoleSeller, buyer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveByRoleOrdersByCreation(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	second := newUser(t, db, "b2@example.com", enums.RoleBuyer, true, base.Add(time.Hour))
	first := newUser(t, db, "b1@example.com", enums.RoleBuyer, true, base)
	newUser(t, db, "b3@example.com", enums.RoleBuyer, false, base.Add(2*time.Hour))
	newUser(t, db, "s1@example.com", enums.RoleSeller, true, base)

	rows, err := repo.ListActiveByRole(ctx, enums.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestRepositorySetActive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "active@example.com", enums.RoleBuyer, true, time.Now().UTC())
	require.NoError(t, repo.SetActive(ctx, user.ID, false))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "login@example.com", enums.RoleSeller, true, time.Now().UTC())
	at := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.WithinDuration(t, at, *reloaded.LastLoginAt, time.Second)
}
