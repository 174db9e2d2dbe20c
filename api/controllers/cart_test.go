package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/middleware"
	cartsvc "github.com/rgoyal-dev/shopkart-backend/internal/cart"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error
}

func (s stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func TestCartGetSuccess(t *testing.T) {
	userID := uuid.New()
	cart := &cartsvc.CartDTO{ID: uuid.New(), Total: "120.00"}
	handler := CartGet(stubCartService{cart: cart}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Cart cartsvc.CartDTO `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Cart.ID != cart.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.Cart.ID)
	}
}

func TestCartGetMissingUserContext(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemPassesShopName(t *testing.T) {
	cart := &cartsvc.CartDTO{ID: uuid.New()}
	handler := CartAddItem(stubCartService{cart: cart}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":2,"shop_name":"Chai Point"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
