package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/responses"
	"github.com/rgoyal-dev/shopkart-backend/api/validators"
	addresssvc "github.com/rgoyal-dev/shopkart-backend/internal/addresses"
	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
)

// AddressCreate saves a delivery address for the authenticated user.
func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Create(r.Context(), userID, addresssvc.CreateInput{
			FullName:        payload.FullName,
			MobileNumber:    payload.MobileNumber,
			LocationDetails: payload.LocationDetails,
			Landmark:        payload.Landmark,
			Pincode:         payload.Pincode,
			City:            payload.City,
			State:           payload.State,
			DefaultAddress:  payload.DefaultAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"address": newAddressResponse(address)})
	}
}

// AddressList returns the user's address book, default first.
func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]addressResponse, 0, len(addresses))
		for i := range addresses {
			views = append(views, *newAddressResponse(&addresses[i]))
		}
		responses.WriteSuccess(w, map[string]any{"addresses": views})
	}
}

// AddressGet returns one address owned by the authenticated user.
func AddressGet(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.PathUUID(r, "addressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Get(r.Context(), addressID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"address": newAddressResponse(address)})
	}
}

type addressRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	MobileNumber    string  `json:"mobile_number" validate:"required"`
	LocationDetails string  `json:"location_details" validate:"required"`
	Landmark        *string `json:"landmark"`
	Pincode         string  `json:"pincode" validate:"required"`
	City            string  `json:"city" validate:"required"`
	State           string  `json:"state" validate:"required"`
	DefaultAddress  bool    `json:"default_address"`
}

type addressResponse struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	MobileNumber    string    `json:"mobile_number"`
	LocationDetails string    `json:"location_details"`
	Landmark        *string   `json:"landmark,omitempty"`
	Pincode         string    `json:"pincode"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	DefaultAddress  bool      `json:"default_address"`
	CreatedAt       time.Time `json:"created_at"`
}

func newAddressResponse(address *models.Address) *addressResponse {
	if address == nil {
		return nil
	}
	return &addressResponse{
		ID:              address.ID,
		FullName:        address.FullName,
		MobileNumber:    address.MobileNumber,
		LocationDetails: address.LocationDetails,
		Landmark:        address.Landmark,
		Pincode:         address.Pincode,
		City:            address.City,
		State:           address.State,
		DefaultAddress:  address.DefaultAddress,
		CreatedAt:       address.CreatedAt,
	}
}
