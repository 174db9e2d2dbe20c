package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	CreateOrders(ctx context.Context, orders []*models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status enums.OrderStatus) error
}

// Repository persists orders and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	return &Repository{db: tx}
}

func (r *Repository) withPreloads(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Stocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Address")
}

// CreateOrders inserts the given orders with their items.
func (r *Repository) CreateOrders(ctx context.Context, orders []*models.Order) error {
	for _, order := range orders {
		if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads an order with items, products, stocks, and address.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.withPreloads(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser loads an order only when it belongs to the user.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.withPreloads(ctx).
		First(&order, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDs loads the given orders without preloads, for transition checks.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Order
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.withPreloads(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListAll returns every order, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.withPreloads(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// UpdateStatus sets the status on one order.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// UpdateStatusBulk sets the status on every order in the id set.
func (r *Repository) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status enums.OrderStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id IN ?", ids).
		Update("status", status).
		Error
}
