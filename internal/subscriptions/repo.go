package subscriptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/types"
)

// Repository handles subscription persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to subscription operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new subscription row.
func (r *Repository) Create(ctx context.Context, subscription *models.Subscription) error {
	if subscription == nil {
		return fmt.Errorf("subscription is required")
	}
	return r.db.WithContext(ctx).Create(subscription).Error
}

// FindByOrderSubscriptionID resolves the upstream order identity to the
// local subscription row.
func (r *Repository) FindByOrderSubscriptionID(ctx context.Context, orderSubscriptionID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Where("order_subscription_id = ?", orderSubscriptionID).
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// ListByUser returns the user's subscriptions, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStoreAndDate returns the store's subscriptions due on the given day.
func (r *Repository) ListByStoreAndDate(ctx context.Context, storeID uuid.UUID, deliveryDate types.Date) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND delivery_date = ?", storeID, deliveryDate).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
