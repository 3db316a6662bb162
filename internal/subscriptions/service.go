package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/db/models"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/types"
)

const orderSubscriptionConstraint = "subscriptions_order_subscription_id_key"

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	FindByOrderSubscriptionID(ctx context.Context, orderSubscriptionID uuid.UUID) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	ListByStoreAndDate(ctx context.Context, storeID uuid.UUID, deliveryDate types.Date) ([]models.Subscription, error)
}

// CreateSubscriptionInput is the payload the order service submits when a
// subscription order completes.
type CreateSubscriptionInput struct {
	StoreID               uuid.UUID
	UserID                uuid.UUID
	OrderSubscriptionID   uuid.UUID
	SubscriptionProductID uuid.UUID
	Code                  string
	DeliveryDate          types.Date
}

// Service exposes the subscription domain operations.
type Service interface {
	Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error)
	ByOrderSubscriptionID(ctx context.Context, orderSubscriptionID uuid.UUID) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	ListByStoreAndDate(ctx context.Context, storeID uuid.UUID, deliveryDate types.Date) ([]models.Subscription, error)
}

type service struct {
	repo subscriptionRepository
}

// NewService builds a subscription service.
func NewService(repo subscriptionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	return &service{repo: repo}, nil
}

// Create records a subscription delivered by the order service. The upstream
// order id is unique, so a replayed creation surfaces as a conflict.
func (s *service) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	if input.StoreID == uuid.Nil || input.UserID == uuid.Nil || input.OrderSubscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store, user and order subscription ids are required")
	}
	if input.DeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date is required")
	}

	subscription := &models.Subscription{
		ID:                    uuid.New(),
		StoreID:               input.StoreID,
		UserID:                input.UserID,
		OrderSubscriptionID:   input.OrderSubscriptionID,
		SubscriptionProductID: input.SubscriptionProductID,
		Code:                  input.Code,
		DeliveryDate:          input.DeliveryDate,
	}
	if err := s.repo.Create(ctx, subscription); err != nil {
		if db.IsUniqueViolation(err, orderSubscriptionConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "subscription already recorded for order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}
	return subscription, nil
}

// ByOrderSubscriptionID resolves the order service's subscription id.
func (s *service) ByOrderSubscriptionID(ctx context.Context, orderSubscriptionID uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.repo.FindByOrderSubscriptionID(ctx, orderSubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return subscription, nil
}

// ListByUser returns the user's subscriptions.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return rows, nil
}

// ListByStoreAndDate returns the store's deliveries due on the given day.
func (s *service) ListByStoreAndDate(ctx context.Context, storeID uuid.UUID, deliveryDate types.Date) ([]models.Subscription, error) {
	if deliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date is required")
	}
	rows, err := s.repo.ListByStoreAndDate(ctx, storeID, deliveryDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return rows, nil
}
