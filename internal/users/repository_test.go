package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string, role enums.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryFindByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	email := fmt.Sprintf("find-%s@example.com", uuid.NewString())
	created := newUser(t, db, email, enums.UserRoleCustomer)

	found, err := repo.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.UserRoleCustomer, found.Role)

	_, err = repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryExistsByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	email := fmt.Sprintf("exists-%s@example.com", uuid.NewString())
	newUser(t, db, email, enums.UserRoleAdmin)

	taken, err := repo.ExistsByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(context.Background(), fmt.Sprintf("free-%s@example.com", uuid.NewString()))
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created := newUser(t, db, fmt.Sprintf("byid-%s@example.com", uuid.NewString()), enums.UserRoleCustomer)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
