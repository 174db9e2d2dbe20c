package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
)

// Repository wires together product and vendor persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func preloadStocks(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateProduct inserts a product together with its stock entries.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves product fields and replaces its stock entries.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stocks").Save(product).Error; err != nil {
			return err
		}
		if product.Stocks == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ShopStock{}).Error; err != nil {
			return err
		}
		for i := range product.Stocks {
			product.Stocks[i].ProductID = product.ID
		}
		if len(product.Stocks) == 0 {
			return nil
		}
		return tx.Create(&product.Stocks).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// FindProductByID loads a product with its stocks in listing order.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks", preloadStocks).
		Preload("Stocks.Vendor").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductsByIDs loads the given products keyed by id, stocks preloaded.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks", preloadStocks).
		Preload("Stocks.Vendor").
		Where("id IN ?", ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// ListProducts returns the catalog, newest first, stocks preloaded.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks", preloadStocks).
		Preload("Stocks.Vendor").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// CreateVendor inserts a vendor row.
func (r *Repository) CreateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// ListVendors returns every vendor ordered by name.
func (r *Repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// VendorsByShopNames resolves the vendor behind each shop name. When several
// stock rows share a shop the lowest-positioned row wins.
func (r *Repository) VendorsByShopNames(ctx context.Context, names []string) (map[string]models.Vendor, error) {
	result := map[string]models.Vendor{}
	if len(names) == 0 {
		return result, nil
	}
	var stocks []models.ShopStock
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("shop_name IN ?", names).
		Order("shop_name ASC").
		Order("position ASC").
		Find(&stocks).
		Error
	if err != nil {
		return nil, err
	}
	for _, stock := range stocks {
		if stock.Vendor == nil {
			continue
		}
		if _, seen := result[stock.ShopName]; !seen {
			result[stock.ShopName] = *stock.Vendor
		}
	}
	return result, nil
}
