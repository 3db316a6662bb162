package coupons

import (
	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/types"
)

// CreateCouponInput captures the fields a store owner supplies for a new coupon.
type CreateCouponInput struct {
	Code          string
	Name          string
	DiscountPrice int64
	MinOrderPrice int64
	LimitCount    int
	StartDate     types.Date
	EndDate       types.Date
}

// EditCouponInput is a full overwrite of a coupon's mutable fields. The code
// and store binding are fixed at creation.
type EditCouponInput struct {
	Name          string
	DiscountPrice int64
	MinOrderPrice int64
	LimitCount    int
	StartDate     types.Date
	EndDate       types.Date
}

// OwnerCouponView is the store owner's read model. UnusedCount is recomputed
// from issuance rows on every read, never kept as a stored counter.
type OwnerCouponView struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	DiscountPrice int64      `json:"discount_price"`
	MinOrderPrice int64      `json:"min_order_price"`
	LimitCount    int        `json:"limit_count"`
	StartDate     types.Date `json:"start_date"`
	EndDate       types.Date `json:"end_date"`
	UnusedCount   int        `json:"unused_count"`
}

// UserCouponView is the customer-facing read model for a store's coupons.
type UserCouponView struct {
	ID            uuid.UUID  `json:"id"`
	StoreID       uuid.UUID  `json:"store_id"`
	Name          string     `json:"name"`
	DiscountPrice int64      `json:"discount_price"`
	MinOrderPrice int64      `json:"min_order_price"`
	StartDate     types.Date `json:"start_date"`
	EndDate       types.Date `json:"end_date"`
	AlreadyIssued bool       `json:"already_issued"`
}

// SkippedCoupon explains why a coupon in a batch download was not issued.
type SkippedCoupon struct {
	CouponID uuid.UUID `json:"coupon_id"`
	Reason   string    `json:"reason"`
}

// Batch skip reasons.
const (
	SkipReasonNotStarted     = "not_started"
	SkipReasonExpired        = "expired"
	SkipReasonLimitExhausted = "limit_exhausted"
	SkipReasonAlreadyIssued  = "already_issued"
)

// DownloadAllResult reports the outcome of a batch download per coupon. A
// skipped coupon is never presented as issued.
type DownloadAllResult struct {
	Issued  []uuid.UUID     `json:"issued"`
	Skipped []SkippedCoupon `json:"skipped"`
}

func ownerView(coupon models.Coupon, issuedCount int) OwnerCouponView {
	return OwnerCouponView{
		ID:            coupon.ID,
		Code:          coupon.Code,
		Name:          coupon.Name,
		DiscountPrice: coupon.DiscountPrice,
		MinOrderPrice: coupon.MinOrderPrice,
		LimitCount:    coupon.LimitCount,
		StartDate:     coupon.StartDate,
		EndDate:       coupon.EndDate,
		UnusedCount:   coupon.LimitCount - issuedCount,
	}
}

func userView(coupon models.Coupon, alreadyIssued bool) UserCouponView {
	return UserCouponView{
		ID:            coupon.ID,
		StoreID:       coupon.StoreID,
		Name:          coupon.Name,
		DiscountPrice: coupon.DiscountPrice,
		MinOrderPrice: coupon.MinOrderPrice,
		StartDate:     coupon.StartDate,
		EndDate:       coupon.EndDate,
		AlreadyIssued: alreadyIssued,
	}
}
