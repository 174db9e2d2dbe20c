package models

import (
	"time"

	"github.com/google/uuid"
)

// UnknownShopName is the sentinel shop for products with no stock entries.
const UnknownShopName = "Unknown Shop"

// Product is a catalog entry. The same product may be stocked by several
// shops; Stocks preserves the listing order, and the entry at position 0 is
// the product's primary shop.
type Product struct {
	ID               uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title            string      `gorm:"column:title;not null"`
	Description      string      `gorm:"column:description"`
	Category         string      `gorm:"column:category"`
	PriceCents       int64       `gorm:"column:price_cents;not null"`
	OfferDescription *string     `gorm:"column:offer_description"`
	ImageURL         *string     `gorm:"column:image_url"`
	Stocks           []ShopStock `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryShopName returns the shop of the first-listed stock entry, or the
// empty string for a stockless product.
func (p Product) PrimaryShopName() string {
	if len(p.Stocks) == 0 {
		return ""
	}
	return p.Stocks[0].ShopName
}

// StockForShop returns the stock entry matching shopName, or nil.
func (p Product) StockForShop(shopName string) *ShopStock {
	for i := range p.Stocks {
		if p.Stocks[i].ShopName == shopName {
			return &p.Stocks[i]
		}
	}
	return nil
}
