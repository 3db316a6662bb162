package cargo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/db/models"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
)

type cargoRepository interface {
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error)
	CreateWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error
	FindWithTx(tx *gorm.DB, storeID, flowerID uuid.UUID) (*models.FlowerCargo, error)
	SaveWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error
}

// RegisterFlowerInput names a flower stocked at store onboarding.
type RegisterFlowerInput struct {
	FlowerID   uuid.UUID
	FlowerName string
	Stock      int64
}

// StockModifyInput sets the absolute stock for one flower.
type StockModifyInput struct {
	FlowerID uuid.UUID
	Stock    int64
}

// Service exposes the flower stock operations.
type Service interface {
	Register(ctx context.Context, storeID uuid.UUID, flowers []RegisterFlowerInput) error
	ModifyStock(ctx context.Context, storeID uuid.UUID, items []StockModifyInput) error
	ListStock(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error)
}

type service struct {
	repo     cargoRepository
	txRunner db.TxRunner
}

// NewService builds a cargo service with the required dependencies.
func NewService(repo cargoRepository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cargo repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txRunner: txRunner}, nil
}

// Register seeds the store's cargo rows at onboarding, all in one transaction.
func (s *service) Register(ctx context.Context, storeID uuid.UUID, flowers []RegisterFlowerInput) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	for _, flower := range flowers {
		if flower.FlowerID == uuid.Nil || flower.FlowerName == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "flower id and name are required")
		}
		if flower.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		for _, flower := range flowers {
			row := &models.FlowerCargo{
				StoreID:    storeID,
				FlowerID:   flower.FlowerID,
				FlowerName: flower.FlowerName,
				Stock:      flower.Stock,
			}
			if err := s.repo.CreateWithTx(tx, row); err != nil {
				if db.IsUniqueViolation(err, "flower_cargos_pkey") {
					return pkgerrors.New(pkgerrors.CodeConflict, "flower already registered")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cargo")
			}
		}
		return nil
	})
}

// ModifyStock applies the batch sequentially in a single transaction. An
// unknown flower or a negative target aborts the whole batch and nothing is
// written.
func (s *service) ModifyStock(ctx context.Context, storeID uuid.UUID, items []StockModifyInput) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one stock item is required")
	}

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			if item.Stock < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
			}
			row, err := s.repo.FindWithTx(tx, storeID, item.FlowerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "flower cargo not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cargo")
			}
			row.Stock = item.Stock
			if err := s.repo.SaveWithTx(tx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cargo")
			}
		}
		return nil
	})
}

// ListStock returns the store's current stock rows.
func (s *service) ListStock(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cargo")
	}
	return rows, nil
}
