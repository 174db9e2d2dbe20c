package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price_cents INTEGER NOT NULL,
  offer_description TEXT,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS shop_stocks (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  shop_name TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  payment_method TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  delivery_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  shop_name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedAddress(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Address {
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
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func buildOrder(userID, addressID uuid.UUID, shop string, status enums.OrderStatus, created time.Time) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		AddressID:     addressID,
		ShopName:      shop,
		Status:        status,
		PaymentMethod: enums.PaymentMethodCOD,
		TotalCents:    50000,
		DeliveryDate:  created.Add(5 * 24 * time.Hour),
		CreatedAt:     created,
		UpdatedAt:     created,
		Items: []models.OrderItem{
			{
				ID:             uuid.New(),
				Position:       0,
				ProductID:      uuid.New(),
				Quantity:       2,
				ShopName:       shop,
				UnitPriceCents: 25000,
				TotalCents:     50000,
			},
		},
	}
	return order
}

func TestRepositoryCreateOrders_withItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	address := seedAddress(t, db, userID)
	order := buildOrder(userID, address.ID, "Chennai Central", enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.CreateOrders(context.Background(), []*models.Order{order}))

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chennai Central", loaded.ShopName)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, int64(50000), loaded.Items[0].TotalCents)
	require.NotNil(t, loaded.Address)
	assert.Equal(t, "Chennai", loaded.Address.City)
}

func TestRepositoryListByUser_newestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	address := seedAddress(t, db, userID)
	now := time.Now().UTC()
	older := buildOrder(userID, address.ID, "Shop A", enums.OrderStatusPending, now.Add(-time.Hour))
	newer := buildOrder(userID, address.ID, "Shop B", enums.OrderStatusPending, now)
	require.NoError(t, repo.CreateOrders(context.Background(), []*models.Order{older, newer}))

	foreign := buildOrder(uuid.New(), address.ID, "Shop C", enums.OrderStatusPending, now)
	require.NoError(t, repo.CreateOrders(context.Background(), []*models.Order{foreign}))

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Shop B", rows[0].ShopName)
	assert.Equal(t, "Shop A", rows[1].ShopName)
}

func TestRepositoryFindByIDForUser_ownership(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	address := seedAddress(t, db, userID)
	order := buildOrder(userID, address.ID, "Shop D", enums.OrderStatusPending, time.Now().UTC())
	require.NoError(t, repo.CreateOrders(context.Background(), []*models.Order{order}))

	_, err := repo.FindByIDForUser(context.Background(), order.ID, userID)
	require.NoError(t, err)

	_, err = repo.FindByIDForUser(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateStatusBulk(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	address := seedAddress(t, db, userID)
	now := time.Now().UTC()
	first := buildOrder(userID, address.ID, "Shop E", enums.OrderStatusPending, now)
	second := buildOrder(userID, address.ID, "Shop F", enums.OrderStatusSent, now)
	untouched := buildOrder(userID, address.ID, "Shop G", enums.OrderStatusPending, now)
	require.NoError(t, repo.CreateOrders(context.Background(), []*models.Order{first, second, untouched}))

	err := repo.UpdateStatusBulk(context.Background(), []uuid.UUID{first.ID, second.ID}, enums.OrderStatusProcessing)
	require.NoError(t, err)

	rows, err := repo.FindByIDs(context.Background(), []uuid.UUID{first.ID, second.ID, untouched.ID})
	require.NoError(t, err)
	statuses := map[uuid.UUID]enums.OrderStatus{}
	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	assert.Equal(t, enums.OrderStatusProcessing, statuses[first.ID])
	assert.Equal(t, enums.OrderStatusProcessing, statuses[second.ID])
	assert.Equal(t, enums.OrderStatusPending, statuses[untouched.ID])
}
