package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/middleware"
	ordersvc "github.com/rgoyal-dev/shopkart-backend/internal/orders"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
)

type stubOrderService struct {
	orders []ordersvc.OrderDTO
	order  *ordersvc.OrderDTO
	relays []ordersvc.RelayDTO
	err    error

	placedWith  *ordersvc.PlaceInput
	bulkIDs     []uuid.UUID
	bulkStatus  enums.OrderStatus
	cancelledID uuid.UUID
}

func (s *stubOrderService) Place(ctx context.Context, input ordersvc.PlaceInput) ([]ordersvc.OrderDTO, error) {
	s.placedWith = &input
	return s.orders, s.err
}

func (s *stubOrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderDTO, error) {
	return s.orders, s.err
}

func (s *stubOrderService) ListAllOrders(ctx context.Context) ([]ordersvc.OrderDTO, error) {
	return s.orders, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) BulkUpdateStatus(ctx context.Context, orderIDs []uuid.UUID, status enums.OrderStatus) error {
	s.bulkIDs = orderIDs
	s.bulkStatus = status
	return s.err
}

func (s *stubOrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*ordersvc.OrderDTO, error) {
	s.cancelledID = orderID
	return s.order, s.err
}

func (s *stubOrderService) PendingRelays(ctx context.Context, orderID uuid.UUID) ([]ordersvc.RelayDTO, error) {
	return s.relays, s.err
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderPlaceSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{orders: []ordersvc.OrderDTO{
		{ID: uuid.New(), ShopName: "Chai Point", Status: enums.OrderStatusPending},
		{ID: uuid.New(), ShopName: "Spice Mart", Status: enums.OrderStatusPending},
	}}
	handler := OrderPlace(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.placedWith == nil {
		t.Fatal("expected Place to be called")
	}
	if svc.placedWith.UserID != userID {
		t.Fatalf("unexpected user id: %s", svc.placedWith.UserID)
	}
	if svc.placedWith.PaymentMethod != enums.PaymentMethodCOD {
		t.Fatalf("unexpected payment method: %s", svc.placedWith.PaymentMethod)
	}

	var envelope struct {
		Data struct {
			Message string              `json:"message"`
			Orders  []ordersvc.OrderDTO `json:"orders"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "Orders placed successfully" {
		t.Fatalf("unexpected message: %q", envelope.Data.Message)
	}
	if len(envelope.Data.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(envelope.Data.Orders))
	}
}

func TestOrderPlaceUnknownPaymentMethod(t *testing.T) {
	handler := OrderPlace(&stubOrderService{}, nil)

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"Barter"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderCancelProcessedAnswers400(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "Cannot cancel processed order")}
	handler := OrderCancel(svc, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withRouteParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Cannot cancel processed order" {
		t.Fatalf("unexpected message: %q", envelope.Error.Message)
	}
}

func TestOrderCancelSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{order: &ordersvc.OrderDTO{ID: orderID, Status: enums.OrderStatusCancelled}}
	handler := OrderCancel(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withRouteParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.cancelledID != orderID {
		t.Fatalf("expected cancel of %s, got %s", orderID, svc.cancelledID)
	}

	var envelope struct {
		Data struct {
			Message string            `json:"message"`
			Order   ordersvc.OrderDTO `json:"order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "Order cancelled successfully" {
		t.Fatalf("unexpected message: %q", envelope.Data.Message)
	}
	if envelope.Data.Order.Status != enums.OrderStatusCancelled {
		t.Fatalf("unexpected status: %s", envelope.Data.Order.Status)
	}
}
