package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/types"
)

// Subscription is a recurring flower delivery created by the order service.
// Rows are read-mostly in this service; order_subscription_id is the upstream
// identity and must be unique.
type Subscription struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID               uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index" json:"store_id"`
	UserID                uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	OrderSubscriptionID   uuid.UUID  `gorm:"column:order_subscription_id;type:uuid;not null;unique" json:"order_subscription_id"`
	SubscriptionProductID uuid.UUID  `gorm:"column:subscription_product_id;type:uuid;not null" json:"subscription_product_id"`
	Code                  string     `gorm:"column:code;not null" json:"code"`
	DeliveryDate          types.Date `gorm:"column:delivery_date;type:date;not null" json:"delivery_date"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
