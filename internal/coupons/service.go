package coupons

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
	"github.com/bloombay/store-backend/pkg/types"
)

// issuedCouponConstraint is the composite primary key on issued_coupons.
const issuedCouponConstraint = "issued_coupons_pkey"

type couponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Save(ctx context.Context, coupon *models.Coupon) error
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Coupon, error)
	CountIssuedByCoupon(ctx context.Context, couponIDs []uuid.UUID) (map[uuid.UUID]int, error)
	ListIssuedCouponIDsByUser(ctx context.Context, userID uuid.UUID, couponIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListUnusedHoldings(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, today types.Date) ([]models.Coupon, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error)
	ListActiveByStoreWithTx(tx *gorm.DB, storeID uuid.UUID) ([]models.Coupon, error)
	CountIssuedWithTx(tx *gorm.DB, couponID uuid.UUID) (int64, error)
	ExistsIssuedWithTx(tx *gorm.DB, couponID, userID uuid.UUID) (bool, error)
	CreateIssuedWithTx(tx *gorm.DB, issued *models.IssuedCoupon) error
}

// Service exposes the coupon domain operations.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, today types.Date, input CreateCouponInput) error
	Edit(ctx context.Context, storeID, couponID uuid.UUID, today types.Date, input EditCouponInput) error
	SoftDelete(ctx context.Context, storeID, couponID uuid.UUID) error
	ListForOwner(ctx context.Context, storeID uuid.UUID) ([]OwnerCouponView, error)
	ListForUser(ctx context.Context, userID, storeID uuid.UUID, today types.Date) ([]UserCouponView, error)
	AvailableInPayment(ctx context.Context, userID, storeID uuid.UUID, today types.Date) ([]UserCouponView, error)
	MyValidCoupons(ctx context.Context, userID uuid.UUID, today types.Date) ([]UserCouponView, error)
	Download(ctx context.Context, userID, couponID uuid.UUID, today types.Date) error
	DownloadAll(ctx context.Context, userID, storeID uuid.UUID, today types.Date) (*DownloadAllResult, error)
}

type service struct {
	repo     couponRepository
	txRunner db.TxRunner
}

// NewService builds a coupon service with the required dependencies.
func NewService(repo couponRepository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, txRunner: txRunner}, nil
}

// Create validates the validity window and persists a new coupon for the store.
func (s *service) Create(ctx context.Context, storeID uuid.UUID, today types.Date, input CreateCouponInput) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if err := ValidateWindow(input.StartDate, input.EndDate, today); err != nil {
		return err
	}

	coupon := &models.Coupon{
		ID:            uuid.New(),
		StoreID:       storeID,
		Code:          input.Code,
		Name:          input.Name,
		DiscountPrice: input.DiscountPrice,
		MinOrderPrice: input.MinOrderPrice,
		LimitCount:    input.LimitCount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        enums.CouponStatusActive,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return nil
}

// Edit overwrites the coupon's mutable fields after revalidating the edit's
// own window. Validation failures propagate unchanged and nothing is written.
func (s *service) Edit(ctx context.Context, storeID, couponID uuid.UUID, today types.Date, input EditCouponInput) error {
	coupon, err := s.loadStoreCoupon(ctx, storeID, couponID)
	if err != nil {
		return err
	}

	if err := ValidateWindow(input.StartDate, input.EndDate, today); err != nil {
		return err
	}

	coupon.Name = input.Name
	coupon.DiscountPrice = input.DiscountPrice
	coupon.MinOrderPrice = input.MinOrderPrice
	coupon.LimitCount = input.LimitCount
	coupon.StartDate = input.StartDate
	coupon.EndDate = input.EndDate

	if err := s.repo.Save(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save coupon")
	}
	return nil
}

// SoftDelete retires the coupon. Historical issuances are untouched.
func (s *service) SoftDelete(ctx context.Context, storeID, couponID uuid.UUID) error {
	coupon, err := s.loadStoreCoupon(ctx, storeID, couponID)
	if err != nil {
		return err
	}

	if coupon.Status == enums.CouponStatusRetired {
		return nil
	}
	coupon.Status = enums.CouponStatusRetired
	if err := s.repo.Save(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire coupon")
	}
	return nil
}

// ListForOwner returns every active coupon of the store with its unused count
// recomputed from the issuance rows.
func (s *service) ListForOwner(ctx context.Context, storeID uuid.UUID) ([]OwnerCouponView, error) {
	couponRows, err := s.repo.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store coupons")
	}

	counts, err := s.repo.CountIssuedByCoupon(ctx, couponIDs(couponRows))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon issuances")
	}

	views := make([]OwnerCouponView, 0, len(couponRows))
	for _, coupon := range couponRows {
		views = append(views, ownerView(coupon, counts[coupon.ID]))
	}
	return views, nil
}

// ListForUser returns the store's currently valid coupons annotated with
// whether the user already claimed each one.
func (s *service) ListForUser(ctx context.Context, userID, storeID uuid.UUID, today types.Date) ([]UserCouponView, error) {
	couponRows, err := s.repo.ListActiveByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store coupons")
	}

	current := make([]models.Coupon, 0, len(couponRows))
	for _, coupon := range couponRows {
		if withinWindow(coupon, today) {
			current = append(current, coupon)
		}
	}

	issued, err := s.repo.ListIssuedCouponIDsByUser(ctx, userID, couponIDs(current))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user issuances")
	}

	views := make([]UserCouponView, 0, len(current))
	for _, coupon := range current {
		views = append(views, userView(coupon, issued[coupon.ID]))
	}
	return views, nil
}

// AvailableInPayment returns the user's unspent holdings for the store that
// are valid today, for the payment step.
func (s *service) AvailableInPayment(ctx context.Context, userID, storeID uuid.UUID, today types.Date) ([]UserCouponView, error) {
	holdings, err := s.repo.ListUnusedHoldings(ctx, userID, &storeID, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupon holdings")
	}
	return holdingViews(holdings), nil
}

// MyValidCoupons returns the user's unspent, currently valid holdings across
// every store.
func (s *service) MyValidCoupons(ctx context.Context, userID uuid.UUID, today types.Date) ([]UserCouponView, error) {
	holdings, err := s.repo.ListUnusedHoldings(ctx, userID, nil, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupon holdings")
	}
	return holdingViews(holdings), nil
}

// Download claims a coupon for the user. The whole check-and-insert runs in
// one transaction; the composite primary key is the final word on double
// claims racing past the existence check.
func (s *service) Download(ctx context.Context, userID, couponID uuid.UUID, today types.Date) error {
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		coupon, err := s.repo.FindByIDWithTx(tx, couponID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
		}
		return s.issueWithTx(tx, coupon, userID, today)
	})
}

// DownloadAll claims every downloadable coupon of the store in one
// transaction. Coupons that cannot be issued are reported as skipped with a
// reason; a storage failure aborts the entire batch.
func (s *service) DownloadAll(ctx context.Context, userID, storeID uuid.UUID, today types.Date) (*DownloadAllResult, error) {
	result := &DownloadAllResult{
		Issued:  []uuid.UUID{},
		Skipped: []SkippedCoupon{},
	}

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		couponRows, err := s.repo.ListActiveByStoreWithTx(tx, storeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store coupons")
		}

		for _, coupon := range couponRows {
			coupon := coupon
			if err := s.issueWithTx(tx, &coupon, userID, today); err != nil {
				reason, ok := skipReason(err)
				if !ok {
					return err
				}
				result.Skipped = append(result.Skipped, SkippedCoupon{CouponID: coupon.ID, Reason: reason})
				continue
			}
			result.Issued = append(result.Issued, coupon.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Issuance failures that a batch download reports as skips instead of
// aborting the transaction.
var (
	errCouponNotStarted = pkgerrors.New(pkgerrors.CodeStateConflict, "coupon not yet available")
	errCouponExpired    = pkgerrors.New(pkgerrors.CodeStateConflict, "coupon expired")
	errLimitExhausted   = pkgerrors.New(pkgerrors.CodeStateConflict, "coupon issuance limit exhausted")
	errAlreadyIssued    = pkgerrors.New(pkgerrors.CodeConflict, "coupon already issued")
)

func (s *service) issueWithTx(tx *gorm.DB, coupon *models.Coupon, userID uuid.UUID, today types.Date) error {
	if coupon.Status != enums.CouponStatusActive {
		// Retired coupons are invisible to customers.
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if today.Before(coupon.StartDate) {
		return errCouponNotStarted
	}
	if today.After(coupon.EndDate) {
		return errCouponExpired
	}

	issuedCount, err := s.repo.CountIssuedWithTx(tx, coupon.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon issuances")
	}
	if issuedCount >= int64(coupon.LimitCount) {
		return errLimitExhausted
	}

	exists, err := s.repo.ExistsIssuedWithTx(tx, coupon.ID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing issuance")
	}
	if exists {
		return errAlreadyIssued
	}

	issued := &models.IssuedCoupon{
		CouponID: coupon.ID,
		UserID:   userID,
		Status:   enums.IssuedCouponStatusUnused,
	}
	if err := s.repo.CreateIssuedWithTx(tx, issued); err != nil {
		if db.IsUniqueViolation(err, issuedCouponConstraint) {
			return errAlreadyIssued
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create issuance")
	}
	return nil
}

func (s *service) loadStoreCoupon(ctx context.Context, storeID, couponID uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if coupon.StoreID != storeID {
		// A coupon belonging to another store is indistinguishable from a
		// missing one for the caller.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return coupon, nil
}

func skipReason(err error) (string, bool) {
	switch {
	case errors.Is(err, errCouponNotStarted):
		return SkipReasonNotStarted, true
	case errors.Is(err, errCouponExpired):
		return SkipReasonExpired, true
	case errors.Is(err, errLimitExhausted):
		return SkipReasonLimitExhausted, true
	case errors.Is(err, errAlreadyIssued):
		return SkipReasonAlreadyIssued, true
	default:
		return "", false
	}
}

func withinWindow(coupon models.Coupon, today types.Date) bool {
	return !today.Before(coupon.StartDate) && !today.After(coupon.EndDate)
}

func couponIDs(couponRows []models.Coupon) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(couponRows))
	for _, coupon := range couponRows {
		ids = append(ids, coupon.ID)
	}
	return ids
}

func holdingViews(holdings []models.Coupon) []UserCouponView {
	views := make([]UserCouponView, 0, len(holdings))
	for _, coupon := range holdings {
		views = append(views, userView(coupon, true))
	}
	return views
}
