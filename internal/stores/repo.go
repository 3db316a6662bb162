package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
)

// Repository handles store and delivery policy persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a store.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwner loads the store owned by the given user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Save persists the provided store.
func (r *Repository) Save(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// FindDeliveryPolicy loads the store's delivery pricing row.
func (r *Repository) FindDeliveryPolicy(ctx context.Context, storeID uuid.UUID) (*models.DeliveryPolicy, error) {
	var policy models.DeliveryPolicy
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&policy).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// SaveDeliveryPolicy persists the provided delivery policy.
func (r *Repository) SaveDeliveryPolicy(ctx context.Context, policy *models.DeliveryPolicy) error {
	if policy == nil {
		return fmt.Errorf("delivery policy is required")
	}
	return r.db.WithContext(ctx).Save(policy).Error
}

// CreateWithTx inserts the store inside the transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, store *models.Store) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return tx.Create(store).Error
}

// CreateDeliveryPolicyWithTx inserts the delivery policy inside the transaction.
func (r *Repository) CreateDeliveryPolicyWithTx(tx *gorm.DB, policy *models.DeliveryPolicy) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if policy == nil {
		return fmt.Errorf("delivery policy is required")
	}
	return tx.Create(policy).Error
}
