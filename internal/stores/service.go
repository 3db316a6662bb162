package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/enums"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
)

const storeCodeConstraint = "stores_code_key"

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
	Save(ctx context.Context, store *models.Store) error
	FindDeliveryPolicy(ctx context.Context, storeID uuid.UUID) (*models.DeliveryPolicy, error)
	SaveDeliveryPolicy(ctx context.Context, policy *models.DeliveryPolicy) error
	CreateWithTx(tx *gorm.DB, store *models.Store) error
	CreateDeliveryPolicyWithTx(tx *gorm.DB, policy *models.DeliveryPolicy) error
}

// Service exposes store profile and delivery policy operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*OwnerStoreView, error)
	GetForUser(ctx context.Context, storeID uuid.UUID) (*PublicStoreView, error)
	GetForOwner(ctx context.Context, ownerID uuid.UUID) (*OwnerStoreView, error)
	Update(ctx context.Context, ownerID uuid.UUID, input UpdateStoreInput) (*OwnerStoreView, error)
	UpdateDeliveryPolicy(ctx context.Context, ownerID uuid.UUID, input UpdateDeliveryPolicyInput) (*DeliveryPolicyView, error)
	ResolveStoreID(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error)
}

type service struct {
	repo     storeRepository
	txRunner db.TxRunner
}

// NewService builds a store service with the required dependencies.
func NewService(repo storeRepository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txRunner: txRunner}, nil
}

// Create opens a store with a zeroed delivery policy. Both rows land in the
// same transaction so a store never exists without its pricing row.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*OwnerStoreView, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if input.Code == "" || input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store code and name are required")
	}

	store := &models.Store{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Code:          input.Code,
		Name:          input.Name,
		DetailInfo:    input.DetailInfo,
		ThumbnailURL:  input.ThumbnailURL,
		Phone:         input.Phone,
		Bank:          input.Bank,
		AccountNumber: input.AccountNumber,
		Address:       input.Address,
		Status:        enums.StoreStatusActive,
	}
	policy := &models.DeliveryPolicy{
		ID:      uuid.New(),
		StoreID: store.ID,
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, store); err != nil {
			if db.IsUniqueViolation(err, storeCodeConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "store code already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
		}
		if err := s.repo.CreateDeliveryPolicyWithTx(tx, policy); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery policy")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := ownerView(*store, *policy)
	return &view, nil
}

// GetForUser returns the public profile plus delivery pricing.
func (s *service) GetForUser(ctx context.Context, storeID uuid.UUID) (*PublicStoreView, error) {
	store, policy, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	view := publicView(*store, *policy)
	return &view, nil
}

// GetForOwner returns the owner's full profile.
func (s *service) GetForOwner(ctx context.Context, ownerID uuid.UUID) (*OwnerStoreView, error) {
	store, policy, err := s.loadOwnerStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	view := ownerView(*store, *policy)
	return &view, nil
}

// Update overwrites the store's editable profile fields.
func (s *service) Update(ctx context.Context, ownerID uuid.UUID, input UpdateStoreInput) (*OwnerStoreView, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	store, policy, err := s.loadOwnerStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	store.Name = input.Name
	store.DetailInfo = input.DetailInfo
	store.ThumbnailURL = input.ThumbnailURL
	store.Phone = input.Phone
	store.Bank = input.Bank
	store.AccountNumber = input.AccountNumber
	store.Address = input.Address

	if err := s.repo.Save(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save store")
	}
	view := ownerView(*store, *policy)
	return &view, nil
}

// UpdateDeliveryPolicy overwrites the store's delivery pricing.
func (s *service) UpdateDeliveryPolicy(ctx context.Context, ownerID uuid.UUID, input UpdateDeliveryPolicyInput) (*DeliveryPolicyView, error) {
	if input.FreeDeliveryMinPrice < 0 || input.DeliveryPrice < 0 || input.RegionSurcharge < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery prices must not be negative")
	}

	_, policy, err := s.loadOwnerStore(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	policy.FreeDeliveryMinPrice = input.FreeDeliveryMinPrice
	policy.DeliveryPrice = input.DeliveryPrice
	policy.RegionSurcharge = input.RegionSurcharge

	if err := s.repo.SaveDeliveryPolicy(ctx, policy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save delivery policy")
	}
	view := policyView(*policy)
	return &view, nil
}

// ResolveStoreID maps an owner principal to their store id.
func (s *service) ResolveStoreID(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store.ID, nil
}

func (s *service) loadStore(ctx context.Context, storeID uuid.UUID) (*models.Store, *models.DeliveryPolicy, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return s.withPolicy(ctx, store)
}

func (s *service) loadOwnerStore(ctx context.Context, ownerID uuid.UUID) (*models.Store, *models.DeliveryPolicy, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return s.withPolicy(ctx, store)
}

func (s *service) withPolicy(ctx context.Context, store *models.Store) (*models.Store, *models.DeliveryPolicy, error) {
	policy, err := s.repo.FindDeliveryPolicy(ctx, store.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Store creation writes both rows atomically, so a missing
			// policy means the database was modified out of band.
			return nil, nil, pkgerrors.New(pkgerrors.CodeInternal, "delivery policy missing")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery policy")
	}
	return store, policy, nil
}
