package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/responses"
	"github.com/rgoyal-dev/shopkart-backend/api/validators"
	catalogsvc "github.com/rgoyal-dev/shopkart-backend/internal/catalog"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
)

// ProductList returns the full catalog for browsing.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// ProductGet returns one product with its shop stocks.
func ProductGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.PathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// ProductCreate inserts a product with its per-shop stock entries.
func ProductCreate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

// ProductUpdate replaces a product and its stock entries.
func ProductUpdate(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.PathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

type productRequest struct {
	Title            string                `json:"title" validate:"required"`
	Description      string                `json:"description" validate:"required"`
	Category         string                `json:"category" validate:"required"`
	Price            string                `json:"price" validate:"required"`
	OfferDescription *string               `json:"offer_description"`
	ImageURL         *string               `json:"image_url"`
	Stocks           []productStockPayload `json:"shop_stocks" validate:"required,min=1,dive"`
}

type productStockPayload struct {
	ShopName string    `json:"shop_name" validate:"required"`
	VendorID uuid.UUID `json:"vendor_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=0"`
}

func (p productRequest) toInput() catalogsvc.ProductInput {
	stocks := make([]catalogsvc.StockInput, 0, len(p.Stocks))
	for _, stock := range p.Stocks {
		stocks = append(stocks, catalogsvc.StockInput{
			ShopName: stock.ShopName,
			VendorID: stock.VendorID,
			Quantity: stock.Quantity,
		})
	}
	return catalogsvc.ProductInput{
		Title:            p.Title,
		Description:      p.Description,
		Category:         p.Category,
		Price:            p.Price,
		OfferDescription: p.OfferDescription,
		ImageURL:         p.ImageURL,
		Stocks:           stocks,
	}
}
