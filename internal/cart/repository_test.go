package cart

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

func setupCartTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  shop_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCart(t *testing.T, db *gorm.DB, userID uuid.UUID, lines ...models.CartItem) *models.Cart {
	t.Helper()

	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	require.NoError(t, db.Create(cart).Error)
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].CartID = cart.ID
		lines[i].Position = i
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	return cart
}

func seedProduct(t *testing.T, db *gorm.DB, title string, priceCents int64) *models.Product {
	t.Helper()

	product := &models.Product{ID: uuid.New(), Title: title, PriceCents: priceCents}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryFindByUser_preloadsLines(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedProduct(t, db, "Masala Tea", 25000)
	seedCart(t, db, userID,
		models.CartItem{ProductID: product.ID, Quantity: 2, ShopName: "Chennai Central"},
		models.CartItem{ProductID: product.ID, Quantity: 1, ShopName: "Mumbai West"},
	)

	cart, err := repo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Chennai Central", cart.Items[0].ShopName)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Masala Tea", cart.Items[0].Product.Title)

	_, err = repo.FindByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindItemForUser_ownership(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	product := seedProduct(t, db, "Filter Coffee", 18000)
	cart := seedCart(t, db, owner,
		models.CartItem{ProductID: product.ID, Quantity: 1, ShopName: "Bangalore South"})
	itemID := cartItemID(t, db, cart.ID)

	item, err := repo.FindItemForUser(context.Background(), itemID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Bangalore South", item.ShopName)

	_, err = repo.FindItemForUser(context.Background(), itemID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteByUser_removesCartAndLines(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	product := seedProduct(t, db, "Green Tea", 12000)
	cart := seedCart(t, db, userID,
		models.CartItem{ProductID: product.ID, Quantity: 3, ShopName: "Delhi North"})

	require.NoError(t, repo.DeleteByUser(context.Background(), userID))

	_, err := repo.FindByUser(context.Background(), userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, repo.DeleteByUser(context.Background(), userID), gorm.ErrRecordNotFound)
}

func cartItemID(t *testing.T, db *gorm.DB, cartID uuid.UUID) uuid.UUID {
	t.Helper()

	var item models.CartItem
	require.NoError(t, db.First(&item, "cart_id = ?", cartID).Error)
	return item.ID
}
