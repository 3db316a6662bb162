package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/api/responses"
	"github.com/bloombay/store-backend/api/validators"
	"github.com/bloombay/store-backend/internal/coupons"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/logger"
	"github.com/bloombay/store-backend/pkg/types"
)

type couponRequest struct {
	Code          string     `json:"code" validate:"required,max=64"`
	Name          string     `json:"name" validate:"required,max=128"`
	DiscountPrice int64      `json:"discount_price" validate:"gte=0"`
	MinOrderPrice int64      `json:"min_order_price" validate:"gte=0"`
	LimitCount    int        `json:"limit_count" validate:"required,min=1"`
	StartDate     types.Date `json:"start_date" validate:"required"`
	EndDate       types.Date `json:"end_date" validate:"required"`
}

type couponEditRequest struct {
	Name          string     `json:"name" validate:"required,max=128"`
	DiscountPrice int64      `json:"discount_price" validate:"gte=0"`
	MinOrderPrice int64      `json:"min_order_price" validate:"gte=0"`
	LimitCount    int        `json:"limit_count" validate:"required,min=1"`
	StartDate     types.Date `json:"start_date" validate:"required"`
	EndDate       types.Date `json:"end_date" validate:"required"`
}

// CreateCoupon registers a new coupon for the owner's store.
func CreateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		storeID, err := ownedStoreFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req couponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.CreateCouponInput{
			Code:          validators.SanitizeString(req.Code, 64),
			Name:          validators.SanitizeString(req.Name, 128),
			DiscountPrice: req.DiscountPrice,
			MinOrderPrice: req.MinOrderPrice,
			LimitCount:    req.LimitCount,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
		}
		if err := svc.Create(r.Context(), storeID, types.Today(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// EditCoupon overwrites the coupon's mutable fields.
func EditCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		storeID, err := ownedStoreFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		couponID, err := validators.ParseUUIDParam(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req couponEditRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.EditCouponInput{
			Name:          validators.SanitizeString(req.Name, 128),
			DiscountPrice: req.DiscountPrice,
			MinOrderPrice: req.MinOrderPrice,
			LimitCount:    req.LimitCount,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
		}
		if err := svc.Edit(r.Context(), storeID, couponID, types.Today(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// DeleteCoupon retires the coupon without touching issued rows.
func DeleteCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		storeID, err := ownedStoreFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		couponID, err := validators.ParseUUIDParam(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), storeID, couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ListStoreCouponsForOwner returns the owner's coupons with unused counts.
func ListStoreCouponsForOwner(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		storeID, err := ownedStoreFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForOwner(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// ListStoreCouponsForUser returns the store's currently valid coupons for the
// product page.
func ListStoreCouponsForUser(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseUUIDParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListForUser(r.Context(), userID, storeID, types.Today())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// ListPaymentCoupons returns the user's usable holdings for the payment step.
func ListPaymentCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseUUIDParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.AvailableInPayment(r.Context(), userID, storeID, types.Today())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// MyCoupons returns the user's valid holdings across all stores.
func MyCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.MyValidCoupons(r.Context(), userID, types.Today())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// DownloadCoupon claims a single coupon for the user.
func DownloadCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		couponID, err := validators.ParseUUIDParam(r, "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Download(r.Context(), userID, couponID, types.Today()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// DownloadAllCoupons claims every downloadable coupon of the store and
// reports the per-coupon outcome.
func DownloadAllCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParseUUIDParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DownloadAll(r.Context(), userID, storeID, types.Today())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ownedStoreFromPath resolves the path store id and checks it against the
// token's active store.
func ownedStoreFromPath(r *http.Request) (uuid.UUID, error) {
	storeID, err := validators.ParseUUIDParam(r, "storeID")
	if err != nil {
		return uuid.Nil, err
	}
	active, err := activeStoreID(r)
	if err != nil {
		return uuid.Nil, err
	}
	if storeID != active {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to caller")
	}
	return storeID, nil
}
