package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/api/middleware"
	"github.com/bloombay/store-backend/api/validators"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
)

func principalUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return validators.ParseUUIDString(raw, "user_id")
}

func activeStoreID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	return validators.ParseUUIDString(raw, "store_id")
}
