package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/api/responses"
	"github.com/bloombay/store-backend/api/validators"
	"github.com/bloombay/store-backend/internal/subscriptions"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/logger"
	"github.com/bloombay/store-backend/pkg/types"
)

type createSubscriptionRequest struct {
	StoreID               uuid.UUID  `json:"store_id" validate:"required"`
	UserID                uuid.UUID  `json:"user_id" validate:"required"`
	OrderSubscriptionID   uuid.UUID  `json:"order_subscription_id" validate:"required"`
	SubscriptionProductID uuid.UUID  `json:"subscription_product_id" validate:"required"`
	Code                  string     `json:"code" validate:"required,max=64"`
	DeliveryDate          types.Date `json:"delivery_date" validate:"required"`
}

// CreateSubscription records a subscription pushed by the order service.
func CreateSubscription(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		var req createSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscription, err := svc.Create(r.Context(), subscriptions.CreateSubscriptionInput{
			StoreID:               req.StoreID,
			UserID:                req.UserID,
			OrderSubscriptionID:   req.OrderSubscriptionID,
			SubscriptionProductID: req.SubscriptionProductID,
			Code:                  validators.SanitizeString(req.Code, 64),
			DeliveryDate:          req.DeliveryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, subscription)
	}
}

// GetSubscriptionByOrder resolves the order service's subscription id.
func GetSubscriptionByOrder(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		orderSubscriptionID, err := validators.ParseUUIDParam(r, "orderSubscriptionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscription, err := svc.ByOrderSubscriptionID(r.Context(), orderSubscriptionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscription)
	}
}

// MySubscriptions lists the caller's subscriptions.
func MySubscriptions(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// StoreSubscriptionsByDate lists the owner's deliveries due on a date.
func StoreSubscriptionsByDate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByStoreAndDate(r.Context(), storeID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
