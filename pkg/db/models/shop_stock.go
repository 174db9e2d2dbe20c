package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopStock binds a product to a shop and the vendor fulfilling it.
// Position preserves the order stocks were listed in; queries must order by
// it so "first stock" stays stable.
type ShopStock struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Position  int       `gorm:"column:position;not null"`
	ShopName  string    `gorm:"column:shop_name;not null"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Vendor    *Vendor   `gorm:"foreignKey:VendorID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
