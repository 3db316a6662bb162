package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a customer inquiry about a store's product.
type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index" json:"store_id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Nickname  string    `gorm:"column:nickname;not null" json:"nickname"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	Secret    bool      `gorm:"column:secret;not null;default:false" json:"secret"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Answer *Answer `gorm:"foreignKey:QuestionID" json:"answer,omitempty"`
}

// Answer is the store owner's reply. One answer per question, keyed by the
// question itself.
type Answer struct {
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	Content    string    `gorm:"column:content;not null" json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
