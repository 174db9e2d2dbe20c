package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/types"
)

var vendorPhonePattern = regexp.MustCompile(`^[0-9]{8,15}$`)

type catalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
}

// Service exposes product and vendor catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	CreateVendor(ctx context.Context, input VendorInput) (*VendorDTO, error)
	ListVendors(ctx context.Context) ([]VendorSummaryDTO, error)
	ListVendorsWithContacts(ctx context.Context) ([]VendorDTO, error)
}

type service struct {
	repo catalogStore
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ProductInput captures the payload to create or replace a product.
type ProductInput struct {
	Title            string
	Description      string
	Category         string
	Price            string
	OfferDescription *string
	ImageURL         *string
	Stocks           []StockInput
}

// StockInput is one shop's stock entry for the product.
type StockInput struct {
	ShopName string
	VendorID uuid.UUID
	Quantity int
}

// VendorInput captures the payload to create a vendor.
type VendorInput struct {
	Name        string
	PhoneNumber string
}

// ProductDTO is the public catalog view of a product.
type ProductDTO struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Price            string     `json:"price"`
	OfferDescription *string    `json:"offer_description,omitempty"`
	ImageURL         *string    `json:"image_url,omitempty"`
	Stocks           []StockDTO `json:"shop_stocks"`
}

// StockDTO is the public view of one shop stock entry.
type StockDTO struct {
	ShopName   string    `json:"shop_name"`
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name,omitempty"`
	Quantity   int       `json:"quantity"`
}

// VendorDTO is the full vendor view returned to admins.
type VendorDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
}

// VendorSummaryDTO is the reduced vendor view exposed to customers.
type VendorSummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateProduct validates and inserts a product with its shop stocks.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	product, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := toProductDTO(created)
	return &dto, nil
}

// UpdateProduct replaces the product's fields and stock list.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	existing, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	replacement, err := buildProduct(input)
	if err != nil {
		return nil, err
	}
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt

	updated, err := s.repo.UpdateProduct(ctx, replacement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := toProductDTO(updated)
	return &dto, nil
}

// GetProduct returns one product with its stocks.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toProductDTO(product)
	return &dto, nil
}

// ListProducts returns the whole catalog.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	result := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		result = append(result, toProductDTO(&rows[i]))
	}
	return result, nil
}

// CreateVendor validates and inserts a vendor.
func (s *service) CreateVendor(ctx context.Context, input VendorInput) (*VendorDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name is required")
	}
	phone := strings.TrimSpace(strings.TrimPrefix(input.PhoneNumber, "+"))
	if !vendorPhonePattern.MatchString(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number must be 8 to 15 digits")
	}

	vendor, err := s.repo.CreateVendor(ctx, &models.Vendor{Name: name, PhoneNumber: phone})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return &VendorDTO{ID: vendor.ID, Name: vendor.Name, PhoneNumber: vendor.PhoneNumber}, nil
}

// ListVendors returns id and name for every vendor.
func (s *service) ListVendors(ctx context.Context) ([]VendorSummaryDTO, error) {
	rows, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	result := make([]VendorSummaryDTO, 0, len(rows))
	for _, vendor := range rows {
		result = append(result, VendorSummaryDTO{ID: vendor.ID, Name: vendor.Name})
	}
	return result, nil
}

// ListVendorsWithContacts returns the full vendor records, phone numbers
// included.
func (s *service) ListVendorsWithContacts(ctx context.Context) ([]VendorDTO, error) {
	rows, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	result := make([]VendorDTO, 0, len(rows))
	for _, vendor := range rows {
		result = append(result, VendorDTO{ID: vendor.ID, Name: vendor.Name, PhoneNumber: vendor.PhoneNumber})
	}
	return result, nil
}

func buildProduct(input ProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	priceCents, err := types.ParseAmountToCents(input.Price)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal amount")
	}
	if len(input.Stocks) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one shop stock entry is required")
	}

	stocks := make([]models.ShopStock, 0, len(input.Stocks))
	for i, stock := range input.Stocks {
		if strings.TrimSpace(stock.ShopName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shop stock %d: shop name is required", i))
		}
		if stock.VendorID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shop stock %d: vendor is required", i))
		}
		if stock.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("shop stock %d: quantity must not be negative", i))
		}
		stocks = append(stocks, models.ShopStock{
			Position: i,
			ShopName: strings.TrimSpace(stock.ShopName),
			VendorID: stock.VendorID,
			Quantity: stock.Quantity,
		})
	}

	return &models.Product{
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		Category:         input.Category,
		PriceCents:       priceCents,
		OfferDescription: input.OfferDescription,
		ImageURL:         input.ImageURL,
		Stocks:           stocks,
	}, nil
}

func toProductDTO(product *models.Product) ProductDTO {
	stocks := make([]StockDTO, 0, len(product.Stocks))
	for _, stock := range product.Stocks {
		entry := StockDTO{
			ShopName: stock.ShopName,
			VendorID: stock.VendorID,
			Quantity: stock.Quantity,
		}
		if stock.Vendor != nil {
			entry.VendorName = stock.Vendor.Name
		}
		stocks = append(stocks, entry)
	}
	return ProductDTO{
		ID:               product.ID,
		Title:            product.Title,
		Description:      product.Description,
		Category:         product.Category,
		Price:            types.FormatCents(product.PriceCents),
		OfferDescription: product.OfferDescription,
		ImageURL:         product.ImageURL,
		Stocks:           stocks,
	}
}
