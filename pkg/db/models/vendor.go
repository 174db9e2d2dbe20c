package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the contact entity behind a shop, used for outbound order relays.
// PhoneNumber is stored as a full international digit string, e.g. "919791611675".
type Vendor struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
