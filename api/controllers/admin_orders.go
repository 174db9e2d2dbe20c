package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/responses"
	"github.com/rgoyal-dev/shopkart-backend/api/validators"
	ordersvc "github.com/rgoyal-dev/shopkart-backend/internal/orders"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
)

// AdminOrderList returns every order with vendor numbers resolved per line.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orders, err := svc.ListAllOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}

// AdminOrderStatus moves one order along the status lifecycle.
func AdminOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"message": "Order status updated",
			"order":   order,
		})
	}
}

// AdminOrderBulkStatus applies one status to a batch of orders. A single
// blocked transition rejects the whole batch unchanged.
func AdminOrderBulkStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload bulkOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.BulkUpdateStatus(r.Context(), payload.OrderIDs, enums.OrderStatus(payload.Status)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Orders updated successfully"})
	}
}

// AdminOrderRelays builds wa.me handoff links for a pending order, one per
// shop with a known vendor.
func AdminOrderRelays(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		relays, err := svc.PendingRelays(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"relays": relays})
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type bulkOrderStatusRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" validate:"required,min=1"`
	Status   string      `json:"status" validate:"required"`
}
