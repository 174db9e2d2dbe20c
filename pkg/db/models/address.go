package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a user-entered delivery address. Orders reference it by id and
// never copy it, so edits after placement show through.
type Address struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FullName        string    `gorm:"column:full_name;not null"`
	MobileNumber    string    `gorm:"column:mobile_number;not null"`
	LocationDetails string    `gorm:"column:location_details;not null"`
	Landmark        *string   `gorm:"column:landmark"`
	Pincode         string    `gorm:"column:pincode;not null"`
	City            string    `gorm:"column:city;not null"`
	State           string    `gorm:"column:state;not null"`
	DefaultAddress  bool      `gorm:"column:default_address;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
