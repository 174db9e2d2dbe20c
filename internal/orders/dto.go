package orders

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	"github.com/rgoyal-dev/shopkart-backend/pkg/types"
)

// OrderDTO is the public view of one order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	ShopName      string              `json:"shop_name"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Total         string              `json:"total"`
	DeliveryDate  time.Time           `json:"delivery_date"`
	AddressID     uuid.UUID           `json:"address_id"`
	Items         []OrderLineDTO      `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderLineDTO is one order line. VendorNumber is only populated on admin
// views.
type OrderLineDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Title        string    `json:"title,omitempty"`
	ShopName     string    `json:"shop_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
	Subtotal     string    `json:"subtotal"`
	VendorNumber *string   `json:"vendor_number,omitempty"`
}

// RelayDTO is one outbound vendor relay for a pending order.
type RelayDTO struct {
	ShopName     string `json:"shop_name"`
	VendorName   string `json:"vendor_name"`
	VendorNumber string `json:"vendor_number"`
	Link         string `json:"link"`
}

// resolveItemShop returns the line's shop: the stored value, else the
// product's first-listed stock, else the sentinel shop.
func resolveItemShop(item models.OrderItem) string {
	if item.ShopName != "" {
		return item.ShopName
	}
	if item.Product != nil {
		if primary := item.Product.PrimaryShopName(); primary != "" {
			return primary
		}
	}
	return models.UnknownShopName
}

// formatVendorNumber normalizes a stored phone to exactly one leading plus.
func formatVendorNumber(phone string) string {
	return "+" + strings.TrimLeft(phone, "+")
}

// relayLink builds a wa.me link carrying the order summary for one shop.
func relayLink(digits string, order *models.Order, shopName string, lines []models.OrderItem) string {
	var summary strings.Builder
	fmt.Fprintf(&summary, "New order %s for %s\n", order.ID, shopName)
	var total int64
	for _, line := range lines {
		title := ""
		if line.Product != nil {
			title = line.Product.Title
		}
		fmt.Fprintf(&summary, "- %d x %s (%s)\n", line.Quantity, title, types.FormatCents(line.TotalCents))
		total += line.TotalCents
	}
	fmt.Fprintf(&summary, "Total: %s", types.FormatCents(total))
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(summary.String())
}

func toOrderDTO(order *models.Order) OrderDTO {
	items := make([]OrderLineDTO, 0, len(order.Items))
	for _, item := range order.Items {
		line := OrderLineDTO{
			ProductID: item.ProductID,
			ShopName:  resolveItemShop(item),
			Quantity:  item.Quantity,
			UnitPrice: types.FormatCents(item.UnitPriceCents),
			Subtotal:  types.FormatCents(item.TotalCents),
		}
		if item.Product != nil {
			line.Title = item.Product.Title
		}
		items = append(items, line)
	}
	return OrderDTO{
		ID:            order.ID,
		ShopName:      order.ShopName,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Total:         types.FormatCents(order.TotalCents),
		DeliveryDate:  order.DeliveryDate,
		AddressID:     order.AddressID,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
