package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/enums"
)

// Store is the tenant root for the store domain. Coupons, subscriptions,
// cargo and questions all hang off a store row.
type Store struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       uuid.UUID         `gorm:"column:owner_id;type:uuid;not null" json:"owner_id"`
	Code          string            `gorm:"column:code;not null;unique" json:"code"`
	Name          string            `gorm:"column:name;not null" json:"name"`
	DetailInfo    *string           `gorm:"column:detail_info" json:"detail_info,omitempty"`
	ThumbnailURL  *string           `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Phone         *string           `gorm:"column:phone" json:"phone,omitempty"`
	Bank          *string           `gorm:"column:bank" json:"bank,omitempty"`
	AccountNumber *string           `gorm:"column:account_number" json:"account_number,omitempty"`
	Address       *string           `gorm:"column:address" json:"address,omitempty"`
	Status        enums.StoreStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
