package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rgoyal-dev/shopkart-backend/api/middleware"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
)

// currentUserID reads the authenticated user id seeded by the auth
// middleware. A request that reaches a protected handler without one is a
// wiring bug, not a client error.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
	}
	return id, nil
}
