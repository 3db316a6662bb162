package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/enums"
	"github.com/bloombay/store-backend/pkg/types"
)

// Coupon is a store-issued discount voucher with a day-granular validity
// window. Retired coupons stay in place so historical issuances keep their
// reference.
type Coupon struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID       uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index" json:"store_id"`
	Code          string             `gorm:"column:code;not null" json:"code"`
	Name          string             `gorm:"column:name;not null" json:"name"`
	DiscountPrice int64              `gorm:"column:discount_price;not null" json:"discount_price"`
	MinOrderPrice int64              `gorm:"column:min_order_price;not null" json:"min_order_price"`
	LimitCount    int                `gorm:"column:limit_count;not null" json:"limit_count"`
	StartDate     types.Date         `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate       types.Date         `gorm:"column:end_date;type:date;not null" json:"end_date"`
	Status        enums.CouponStatus `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IssuedCoupon records a user's claim on a coupon. The composite primary key
// guarantees at most one issuance per (coupon, user) pair; the database
// constraint, not application locking, is what makes concurrent double claims
// safe.
type IssuedCoupon struct {
	CouponID  uuid.UUID                `gorm:"column:coupon_id;type:uuid;primaryKey" json:"coupon_id"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Status    enums.IssuedCouponStatus `gorm:"column:status;not null;default:'unused'" json:"status"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
