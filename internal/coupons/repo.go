package coupons

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/enums"
	"github.com/bloombay/store-backend/pkg/types"
)

// Repository handles coupon and issuance persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to coupon operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new coupon row.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon == nil {
		return fmt.Errorf("coupon is required")
	}
	return r.db.WithContext(ctx).Create(coupon).Error
}

// FindByID loads a coupon regardless of status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Save persists the provided coupon.
func (r *Repository) Save(ctx context.Context, coupon *models.Coupon) error {
	if coupon == nil {
		return fmt.Errorf("coupon is required")
	}
	return r.db.WithContext(ctx).Save(coupon).Error
}

// ListActiveByStore returns the store's non-retired coupons in a stable order.
func (r *Repository) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, enums.CouponStatusActive).
		Order("created_at ASC").
		Order("id ASC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// CountIssuedByCoupon recounts issuances per coupon. The unused count is
// always derived from this query at read time.
func (r *Repository) CountIssuedByCoupon(ctx context.Context, couponIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(couponIDs))
	if len(couponIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CouponID uuid.UUID
		Total    int
	}
	err := r.db.WithContext(ctx).
		Model(&models.IssuedCoupon{}).
		Select("coupon_id, COUNT(*) AS total").
		Where("coupon_id IN ?", couponIDs).
		Group("coupon_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CouponID] = row.Total
	}
	return counts, nil
}

// ListIssuedCouponIDsByUser returns which of the given coupons the user holds.
func (r *Repository) ListIssuedCouponIDsByUser(ctx context.Context, userID uuid.UUID, couponIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	issued := make(map[uuid.UUID]bool, len(couponIDs))
	if len(couponIDs) == 0 {
		return issued, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.IssuedCoupon{}).
		Where("user_id = ? AND coupon_id IN ?", userID, couponIDs).
		Pluck("coupon_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		issued[id] = true
	}
	return issued, nil
}

// ListUnusedHoldings returns active coupons the user claimed and has not
// spent, valid on the given date. A nil storeID widens the query to every
// store.
func (r *Repository) ListUnusedHoldings(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, today types.Date) ([]models.Coupon, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Select("coupons.*").
		Joins("JOIN issued_coupons ON issued_coupons.coupon_id = coupons.id").
		Where("issued_coupons.user_id = ?", userID).
		Where("issued_coupons.status = ?", enums.IssuedCouponStatusUnused).
		Where("coupons.status = ?", enums.CouponStatusActive).
		Where("coupons.start_date <= ? AND coupons.end_date >= ?", today, today)
	if storeID != nil {
		query = query.Where("coupons.store_id = ?", *storeID)
	}

	var coupons []models.Coupon
	if err := query.Order("coupons.created_at ASC").Order("coupons.id ASC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// FindByIDWithTx loads a coupon using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var coupon models.Coupon
	if err := tx.Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListActiveByStoreWithTx lists the store's active coupons inside the transaction.
func (r *Repository) ListActiveByStoreWithTx(tx *gorm.DB, storeID uuid.UUID) ([]models.Coupon, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var coupons []models.Coupon
	err := tx.
		Where("store_id = ? AND status = ?", storeID, enums.CouponStatusActive).
		Order("created_at ASC").
		Order("id ASC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// CountIssuedWithTx recounts a single coupon's issuances inside the transaction.
func (r *Repository) CountIssuedWithTx(tx *gorm.DB, couponID uuid.UUID) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	var count int64
	err := tx.Model(&models.IssuedCoupon{}).
		Where("coupon_id = ?", couponID).
		Count(&count).Error
	return count, err
}

// ExistsIssuedWithTx reports whether the user already claimed the coupon.
func (r *Repository) ExistsIssuedWithTx(tx *gorm.DB, couponID, userID uuid.UUID) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	var count int64
	err := tx.Model(&models.IssuedCoupon{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateIssuedWithTx inserts the issuance row. A duplicate claim violates the
// composite primary key and surfaces as a unique violation to the caller.
func (r *Repository) CreateIssuedWithTx(tx *gorm.DB, issued *models.IssuedCoupon) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if issued == nil {
		return fmt.Errorf("issued coupon is required")
	}
	return tx.Create(issued).Error
}
