package cargo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
)

// Repository handles flower cargo persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cargo operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByStore returns the store's stock rows in flower name order.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error) {
	var rows []models.FlowerCargo
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("flower_name ASC").
		Order("flower_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateWithTx inserts a cargo row inside the transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if cargo == nil {
		return fmt.Errorf("cargo is required")
	}
	return tx.Create(cargo).Error
}

// FindWithTx loads a cargo row by its composite key inside the transaction.
func (r *Repository) FindWithTx(tx *gorm.DB, storeID, flowerID uuid.UUID) (*models.FlowerCargo, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var cargo models.FlowerCargo
	err := tx.
		Where("store_id = ? AND flower_id = ?", storeID, flowerID).
		First(&cargo).Error
	if err != nil {
		return nil, err
	}
	return &cargo, nil
}

// SaveWithTx persists the cargo row inside the transaction.
func (r *Repository) SaveWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if cargo == nil {
		return fmt.Errorf("cargo is required")
	}
	return tx.Save(cargo).Error
}
