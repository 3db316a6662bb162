package controllers

import (
	"net/http"

	"github.com/bloombay/store-backend/api/responses"
	"github.com/bloombay/store-backend/api/validators"
	"github.com/bloombay/store-backend/internal/stores"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/logger"
)

type createStoreRequest struct {
	Code          string  `json:"code" validate:"required,max=64"`
	Name          string  `json:"name" validate:"required,max=128"`
	DetailInfo    *string `json:"detail_info" validate:"omitempty,max=2000"`
	ThumbnailURL  *string `json:"thumbnail_url" validate:"omitempty,max=512"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
	Bank          *string `json:"bank" validate:"omitempty,max=64"`
	AccountNumber *string `json:"account_number" validate:"omitempty,max=64"`
	Address       *string `json:"address" validate:"omitempty,max=256"`
}

type updateStoreRequest struct {
	Name          string  `json:"name" validate:"required,max=128"`
	DetailInfo    *string `json:"detail_info" validate:"omitempty,max=2000"`
	ThumbnailURL  *string `json:"thumbnail_url" validate:"omitempty,max=512"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
	Bank          *string `json:"bank" validate:"omitempty,max=64"`
	AccountNumber *string `json:"account_number" validate:"omitempty,max=64"`
	Address       *string `json:"address" validate:"omitempty,max=256"`
}

type updateDeliveryPolicyRequest struct {
	FreeDeliveryMinPrice int64 `json:"free_delivery_min_price" validate:"gte=0"`
	DeliveryPrice        int64 `json:"delivery_price" validate:"gte=0"`
	RegionSurcharge      int64 `json:"region_surcharge" validate:"gte=0"`
}

// CreateStore opens a store for the authenticated owner.
func CreateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		ownerID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), ownerID, stores.CreateStoreInput{
			Code:          validators.SanitizeString(req.Code, 64),
			Name:          validators.SanitizeString(req.Name, 128),
			DetailInfo:    req.DetailInfo,
			ThumbnailURL:  req.ThumbnailURL,
			Phone:         req.Phone,
			Bank:          req.Bank,
			AccountNumber: req.AccountNumber,
			Address:       req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetStore returns the public store profile.
func GetStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := validators.ParseUUIDParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetForUser(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// GetMyStore returns the owner's full store profile.
func GetMyStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		ownerID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetForOwner(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateMyStore overwrites the owner's store profile.
func UpdateMyStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		ownerID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), ownerID, stores.UpdateStoreInput{
			Name:          validators.SanitizeString(req.Name, 128),
			DetailInfo:    req.DetailInfo,
			ThumbnailURL:  req.ThumbnailURL,
			Phone:         req.Phone,
			Bank:          req.Bank,
			AccountNumber: req.AccountNumber,
			Address:       req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateDeliveryPolicy overwrites the owner's delivery pricing.
func UpdateDeliveryPolicy(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		ownerID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDeliveryPolicyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateDeliveryPolicy(r.Context(), ownerID, stores.UpdateDeliveryPolicyInput{
			FreeDeliveryMinPrice: req.FreeDeliveryMinPrice,
			DeliveryPrice:        req.DeliveryPrice,
			RegionSurcharge:      req.RegionSurcharge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
