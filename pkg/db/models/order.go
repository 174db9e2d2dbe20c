package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
)

// Order is a single-shop purchase record produced by splitting a cart at
// placement. TotalCents is frozen at creation and never recomputed; only
// Status mutates afterwards.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	AddressID     uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	ShopName      string              `gorm:"column:shop_name;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'Pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TotalCents    int64               `gorm:"column:total_cents;not null"`
	DeliveryDate  time.Time           `gorm:"column:delivery_date;not null"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address       *Address            `gorm:"foreignKey:AddressID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
