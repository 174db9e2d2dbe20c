package addresses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
)

func setupAddressesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  full_name TEXT NOT NULL,
  mobile_number TEXT NOT NULL,
  location_details TEXT NOT NULL,
  landmark TEXT,
  pincode TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  default_address INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newAddress(t *testing.T, db *gorm.DB, userID uuid.UUID, isDefault bool) *models.Address {
	t.Helper()

	address := &models.Address{
		ID:              uuid.New(),
		UserID:          userID,
		FullName:        "Ravi Goyal",
		MobileNumber:    "9791611675",
		LocationDetails: "12 MG Road",
		Pincode:         "600001",
		City:            "Chennai",
		State:           "TN",
		DefaultAddress:  isDefault,
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func TestRepositoryFindByIDForUser_ownership(t *testing.T) {
	db := setupAddressesTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	other := uuid.New()
	address := newAddress(t, db, owner, false)

	found, err := repo.FindByIDForUser(context.Background(), address.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, address.ID, found.ID)

	_, err = repo.FindByIDForUser(context.Background(), address.ID, other)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryClearDefault(t *testing.T) {
	db := setupAddressesTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	first := newAddress(t, db, userID, true)
	newAddress(t, db, uuid.New(), true)

	require.NoError(t, repo.ClearDefault(context.Background(), userID))

	reloaded, err := repo.FindByIDForUser(context.Background(), first.ID, userID)
	require.NoError(t, err)
	assert.False(t, reloaded.DefaultAddress)

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
