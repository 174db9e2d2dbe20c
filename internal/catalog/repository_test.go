package catalog

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

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
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
);`
	shopStocks := `
CREATE TABLE IF NOT EXISTS shop_stocks (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  shop_name TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(vendors).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(shopStocks).Error)
	return db
}

func newVendor(t *testing.T, db *gorm.DB, name, phone string) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{ID: uuid.New(), Name: name, PhoneNumber: phone}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newProduct(t *testing.T, db *gorm.DB, title string, priceCents int64, stocks ...models.ShopStock) *models.Product {
	t.Helper()

	product := &models.Product{ID: uuid.New(), Title: title, PriceCents: priceCents}
	require.NoError(t, db.Create(product).Error)
	for i := range stocks {
		stocks[i].ID = uuid.New()
		stocks[i].ProductID = product.ID
		stocks[i].Position = i
		require.NoError(t, db.Create(&stocks[i]).Error)
	}
	return product
}

func TestRepositoryFindProductByID_stockOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	vendorA := newVendor(t, db, "Vendor A", "919791611675")
	vendorB := newVendor(t, db, "Vendor B", "918888777666")
	created := newProduct(t, db, "Masala Tea", 25000,
		models.ShopStock{ShopName: "Chennai Central", VendorID: vendorA.ID, Quantity: 10},
		models.ShopStock{ShopName: "Mumbai West", VendorID: vendorB.ID, Quantity: 4},
	)

	product, err := repo.FindProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, product.Stocks, 2)
	assert.Equal(t, "Chennai Central", product.Stocks[0].ShopName)
	assert.Equal(t, "Mumbai West", product.Stocks[1].ShopName)
	require.NotNil(t, product.Stocks[0].Vendor)
	assert.Equal(t, "Vendor A", product.Stocks[0].Vendor.Name)
	assert.Equal(t, "Chennai Central", product.PrimaryShopName())

	_, err = repo.FindProductByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindProductsByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	vendor := newVendor(t, db, "Vendor C", "917000111222")
	first := newProduct(t, db, "Filter Coffee", 18000,
		models.ShopStock{ShopName: "Bangalore South", VendorID: vendor.ID, Quantity: 7})
	second := newProduct(t, db, "Green Tea", 12000)

	found, err := repo.FindProductsByIDs(context.Background(), []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Filter Coffee", found[first.ID].Title)
	assert.Empty(t, found[second.ID].Stocks)

	empty, err := repo.FindProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryUpdateProduct_replacesStocks(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	vendor := newVendor(t, db, "Vendor D", "916000111222")
	created := newProduct(t, db, "Jasmine Tea", 9000,
		models.ShopStock{ShopName: "Old Shop", VendorID: vendor.ID, Quantity: 1})

	created.Title = "Jasmine Tea Premium"
	created.PriceCents = 9900
	created.Stocks = []models.ShopStock{
		{ID: uuid.New(), Position: 0, ShopName: "New Shop", VendorID: vendor.ID, Quantity: 3},
	}
	_, err := repo.UpdateProduct(context.Background(), created)
	require.NoError(t, err)

	reloaded, err := repo.FindProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jasmine Tea Premium", reloaded.Title)
	assert.Equal(t, int64(9900), reloaded.PriceCents)
	require.Len(t, reloaded.Stocks, 1)
	assert.Equal(t, "New Shop", reloaded.Stocks[0].ShopName)
}

func TestRepositoryVendorsByShopNames(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	vendorA := newVendor(t, db, "Vendor E", "915000111222")
	vendorB := newVendor(t, db, "Vendor F", "914000111222")
	newProduct(t, db, "Cardamom Tea", 30000,
		models.ShopStock{ShopName: "Delhi North", VendorID: vendorA.ID, Quantity: 2},
		models.ShopStock{ShopName: "Delhi North", VendorID: vendorB.ID, Quantity: 9},
	)

	resolved, err := repo.VendorsByShopNames(context.Background(), []string{"Delhi North", "Nowhere"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Vendor E", resolved["Delhi North"].Name)
}
