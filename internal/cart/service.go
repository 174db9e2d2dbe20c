package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
	"github.com/rgoyal-dev/shopkart-backend/pkg/types"
)

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations scoped to the owning user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	products productLoader
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

// AddItemInput captures the payload for adding a cart line. ShopName is
// optional; when present it must match one of the product's stocked shops.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	ShopName  *string
}

// CartDTO is the cart view with line subtotals at current catalog prices.
type CartDTO struct {
	ID    uuid.UUID     `json:"id"`
	Items []CartLineDTO `json:"items"`
	Total string        `json:"total"`
}

// CartLineDTO is one cart line with its product summary.
type CartLineDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	ShopName  string    `json:"shop_name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Subtotal  string    `json:"subtotal"`
}

// Get returns the user's cart. A user without a cart sees an empty one.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartDTO{Items: []CartLineDTO{}, Total: types.FormatCents(0)}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	dto := toCartDTO(cart)
	return &dto, nil
}

// AddItem adds a product to the cart, creating the cart on first use. The
// line's shop is resolved here, once, and stored; placement later consumes
// the stored value without re-deriving it.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	shopName, err := s.resolveShop(ctx, product, input.ShopName)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		cart, err = s.repo.Create(ctx, &models.Cart{UserID: userID})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
	}

	if existing := findLine(cart, product.ID, shopName); existing != nil {
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}
		return s.Get(ctx, userID)
	}

	position := 0
	for _, item := range cart.Items {
		if item.Position >= position {
			position = item.Position + 1
		}
	}
	if _, err := s.repo.AddItem(ctx, &models.CartItem{
		CartID:    cart.ID,
		Position:  position,
		ProductID: product.ID,
		Quantity:  input.Quantity,
		ShopName:  shopName,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}

	return s.Get(ctx, userID)
}

// UpdateItemQuantity sets the quantity of an owned cart line.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.loadOwnedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.Get(ctx, userID)
}

// RemoveItem deletes an owned cart line.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	if _, err := s.loadOwnedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.Get(ctx, userID)
}

// Clear deletes the user's cart entirely.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) loadOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return item, nil
}

func (s *service) resolveShop(ctx context.Context, product *models.Product, requested *string) (string, error) {
	if requested != nil {
		name := strings.TrimSpace(*requested)
		if name == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "shop name must not be blank")
		}
		if product.StockForShop(name) == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "product is not stocked by the requested shop")
		}
		return name, nil
	}
	if primary := product.PrimaryShopName(); primary != "" {
		return primary, nil
	}
	s.logg.Warn(s.logg.WithField(ctx, "product_id", product.ID.String()), "product has no stock entries, assigning sentinel shop")
	return models.UnknownShopName, nil
}

func findLine(cart *models.Cart, productID uuid.UUID, shopName string) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].ShopName == shopName {
			return &cart.Items[i]
		}
	}
	return nil
}

func toCartDTO(cart *models.Cart) CartDTO {
	items := make([]CartLineDTO, 0, len(cart.Items))
	var totalCents int64
	for _, item := range cart.Items {
		line := CartLineDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			ShopName:  item.ShopName,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			line.UnitPrice = types.FormatCents(item.Product.PriceCents)
			subtotal := item.Product.PriceCents * int64(item.Quantity)
			line.Subtotal = types.FormatCents(subtotal)
			totalCents += subtotal
		}
		items = append(items, line)
	}
	return CartDTO{ID: cart.ID, Items: items, Total: types.FormatCents(totalCents)}
}
