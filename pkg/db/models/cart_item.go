package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (product, quantity) line. ShopName is resolved once when
// the line is added and consumed as-is at placement; prices are never cached
// here, the catalog price at placement time wins.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	Position  int       `gorm:"column:position;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	ShopName  string    `gorm:"column:shop_name;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
