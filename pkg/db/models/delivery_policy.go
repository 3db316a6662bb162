package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryPolicy holds a store's delivery pricing. Exactly one row per store.
// Prices are integer KRW amounts.
type DeliveryPolicy struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID              uuid.UUID `gorm:"column:store_id;type:uuid;not null;unique" json:"store_id"`
	FreeDeliveryMinPrice int64     `gorm:"column:free_delivery_min_price;not null;default:0" json:"free_delivery_min_price"`
	DeliveryPrice        int64     `gorm:"column:delivery_price;not null;default:0" json:"delivery_price"`
	RegionSurcharge      int64     `gorm:"column:region_surcharge;not null;default:0" json:"region_surcharge"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
