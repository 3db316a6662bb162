package models

import (
	"time"

	"github.com/google/uuid"
)

// FlowerCargo tracks per-store stock of a flower. Keyed by the composite
// (store, flower) pair.
type FlowerCargo struct {
	StoreID    uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey" json:"store_id"`
	FlowerID   uuid.UUID `gorm:"column:flower_id;type:uuid;primaryKey" json:"flower_id"`
	FlowerName string    `gorm:"column:flower_name;not null" json:"flower_name"`
	Stock      int64     `gorm:"column:stock;not null;default:0" json:"stock"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
