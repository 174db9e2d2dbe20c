package addresses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
)

// AddressRepository defines persistence operations for delivery addresses.
type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}

// Repository persists delivery addresses.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) AddressRepository {
	return &Repository{db: tx}
}

// Create inserts an address row.
func (r *Repository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// FindByIDForUser loads an address only when it belongs to the user.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		First(&address, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByUser returns the user's addresses, default first, then newest.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("default_address DESC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ClearDefault unsets the default flag on every address of the user.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND default_address = ?", userID, true).
		Update("default_address", false).
		Error
}
