package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/enums"
	"github.com/bloombay/store-backend/pkg/types"
)

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	coupons := `
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  discount_price INTEGER NOT NULL DEFAULT 0,
  min_order_price INTEGER NOT NULL DEFAULT 0,
  limit_count INTEGER NOT NULL DEFAULT 0,
  start_date DATE NOT NULL,
  end_date DATE NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	issuedCoupons := `
CREATE TABLE IF NOT EXISTS issued_coupons (
  coupon_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'unused',
  created_at DATETIME,
  CONSTRAINT issued_coupons_pkey PRIMARY KEY (coupon_id, user_id)
);`
	require.NoError(t, conn.Exec(coupons).Error)
	require.NoError(t, conn.Exec(issuedCoupons).Error)
	return conn
}

func seedCoupon(t *testing.T, conn *gorm.DB, storeID uuid.UUID, start, end types.Date, createdAt time.Time) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		ID:            uuid.New(),
		StoreID:       storeID,
		Code:          "WELCOME",
		Name:          "Welcome Coupon",
		DiscountPrice: 1000,
		MinOrderPrice: 10000,
		LimitCount:    100,
		StartDate:     start,
		EndDate:       end,
		Status:        enums.CouponStatusActive,
		CreatedAt:     createdAt,
	}
	require.NoError(t, conn.Create(&coupon).Error)
	return coupon
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	start := types.NewDate(2024, 4, 1)
	end := types.NewDate(2024, 4, 30)
	coupon := models.Coupon{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		Code:          "APRIL5",
		Name:          "April Special",
		DiscountPrice: 500,
		MinOrderPrice: 5000,
		LimitCount:    20,
		StartDate:     start,
		EndDate:       end,
		Status:        enums.CouponStatusActive,
	}
	require.NoError(t, repo.Create(ctx, &coupon))

	found, err := repo.FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, coupon.Code, found.Code)
	assert.Equal(t, start, found.StartDate)
	assert.Equal(t, end, found.EndDate)
}

func TestRepositoryFindMissing(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveByStore(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storeID := uuid.New()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	start := types.NewDate(2024, 4, 1)
	end := types.NewDate(2024, 4, 30)

	older := seedCoupon(t, conn, storeID, start, end, base)
	newer := seedCoupon(t, conn, storeID, start, end, base.Add(time.Hour))

	retired := seedCoupon(t, conn, storeID, start, end, base.Add(2*time.Hour))
	require.NoError(t, conn.Model(&models.Coupon{}).
		Where("id = ?", retired.ID).
		Update("status", enums.CouponStatusRetired).Error)

	seedCoupon(t, conn, uuid.New(), start, end, base)

	listed, err := repo.ListActiveByStore(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, older.ID, listed[0].ID)
	assert.Equal(t, newer.ID, listed[1].ID)
}

func TestRepositoryCountIssuedByCoupon(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storeID := uuid.New()
	start := types.NewDate(2024, 4, 1)
	end := types.NewDate(2024, 4, 30)
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	popular := seedCoupon(t, conn, storeID, start, end, base)
	quiet := seedCoupon(t, conn, storeID, start, end, base)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateIssuedWithTx(conn, &models.IssuedCoupon{
			CouponID: popular.ID,
			UserID:   uuid.New(),
			Status:   enums.IssuedCouponStatusUnused,
		}))
	}

	counts, err := repo.CountIssuedByCoupon(ctx, []uuid.UUID{popular.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, counts[popular.ID])
	assert.Equal(t, 0, counts[quiet.ID])

	empty, err := repo.CountIssuedByCoupon(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryListIssuedCouponIDsByUser(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storeID := uuid.New()
	userID := uuid.New()
	start := types.NewDate(2024, 4, 1)
	end := types.NewDate(2024, 4, 30)
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	claimed := seedCoupon(t, conn, storeID, start, end, base)
	unclaimed := seedCoupon(t, conn, storeID, start, end, base)

	require.NoError(t, repo.CreateIssuedWithTx(conn, &models.IssuedCoupon{
		CouponID: claimed.ID,
		UserID:   userID,
		Status:   enums.IssuedCouponStatusUnused,
	}))

	issued, err := repo.ListIssuedCouponIDsByUser(ctx, userID, []uuid.UUID{claimed.ID, unclaimed.ID})
	require.NoError(t, err)
	assert.True(t, issued[claimed.ID])
	assert.False(t, issued[unclaimed.ID])
}

func TestRepositoryListUnusedHoldings(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	today := types.NewDate(2024, 4, 15)
	userID := uuid.New()
	storeID := uuid.New()
	otherStoreID := uuid.New()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	valid := seedCoupon(t, conn, storeID, today.AddDays(-5), today.AddDays(5), base)
	lapsed := seedCoupon(t, conn, storeID, today.AddDays(-20), today.AddDays(-10), base.Add(time.Hour))
	spent := seedCoupon(t, conn, storeID, today.AddDays(-5), today.AddDays(5), base.Add(2*time.Hour))
	elsewhere := seedCoupon(t, conn, otherStoreID, today.AddDays(-5), today.AddDays(5), base.Add(3*time.Hour))

	holdings := []models.IssuedCoupon{
		{CouponID: valid.ID, UserID: userID, Status: enums.IssuedCouponStatusUnused},
		{CouponID: lapsed.ID, UserID: userID, Status: enums.IssuedCouponStatusUnused},
		{CouponID: spent.ID, UserID: userID, Status: enums.IssuedCouponStatusUsed},
		{CouponID: elsewhere.ID, UserID: userID, Status: enums.IssuedCouponStatusUnused},
	}
	for i := range holdings {
		require.NoError(t, repo.CreateIssuedWithTx(conn, &holdings[i]))
	}

	scoped, err := repo.ListUnusedHoldings(ctx, userID, &storeID, today)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, valid.ID, scoped[0].ID)

	all, err := repo.ListUnusedHoldings(ctx, userID, nil, today)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, valid.ID, all[0].ID)
	assert.Equal(t, elsewhere.ID, all[1].ID)
}

func TestRepositoryDuplicateIssuance(t *testing.T) {
	conn := setupCouponsTestDB(t)
	repo := NewRepository(conn)

	storeID := uuid.New()
	userID := uuid.New()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	coupon := seedCoupon(t, conn, storeID, types.NewDate(2024, 4, 1), types.NewDate(2024, 4, 30), base)

	first := models.IssuedCoupon{CouponID: coupon.ID, UserID: userID, Status: enums.IssuedCouponStatusUnused}
	require.NoError(t, repo.CreateIssuedWithTx(conn, &first))

	second := models.IssuedCoupon{CouponID: coupon.ID, UserID: userID, Status: enums.IssuedCouponStatusUnused}
	err := repo.CreateIssuedWithTx(conn, &second)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "issued_coupons_pkey"))
}

func TestRepositoryTxMethodsRequireTransaction(t *testing.T) {
	repo := NewRepository(nil)

	_, err := repo.FindByIDWithTx(nil, uuid.New())
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
	_, err = repo.CountIssuedWithTx(nil, uuid.New())
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
	require.ErrorIs(t, repo.CreateIssuedWithTx(nil, &models.IssuedCoupon{}), gorm.ErrInvalidTransaction)
}
