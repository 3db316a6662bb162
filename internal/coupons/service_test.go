package coupons

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/enums"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/types"
)

type stubRepo struct {
	createFn         func(ctx context.Context, coupon *models.Coupon) error
	findFn           func(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	saveFn           func(ctx context.Context, coupon *models.Coupon) error
	listActiveFn     func(ctx context.Context, storeID uuid.UUID) ([]models.Coupon, error)
	countIssuedFn    func(ctx context.Context, couponIDs []uuid.UUID) (map[uuid.UUID]int, error)
	issuedByUserFn   func(ctx context.Context, userID uuid.UUID, couponIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	holdingsFn       func(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, today types.Date) ([]models.Coupon, error)
	findTxFn         func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error)
	listActiveTxFn   func(tx *gorm.DB, storeID uuid.UUID) ([]models.Coupon, error)
	countIssuedTxFn  func(tx *gorm.DB, couponID uuid.UUID) (int64, error)
	existsIssuedTxFn func(tx *gorm.DB, couponID, userID uuid.UUID) (bool, error)
	createIssuedTxFn func(tx *gorm.DB, issued *models.IssuedCoupon) error
}

func (s *stubRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	if s.createFn != nil {
		return s.createFn(ctx, coupon)
	}
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) Save(ctx context.Context, coupon *models.Coupon) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, coupon)
	}
	return nil
}

func (s *stubRepo) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Coupon, error) {
	if s.listActiveFn != nil {
		return s.listActiveFn(ctx, storeID)
	}
	return nil, nil
}

func (s *stubRepo) CountIssuedByCoupon(ctx context.Context, couponIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if s.countIssuedFn != nil {
		return s.countIssuedFn(ctx, couponIDs)
	}
	return map[uuid.UUID]int{}, nil
}

func (s *stubRepo) ListIssuedCouponIDsByUser(ctx context.Context, userID uuid.UUID, couponIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if s.issuedByUserFn != nil {
		return s.issuedByUserFn(ctx, userID, couponIDs)
	}
	return map[uuid.UUID]bool{}, nil
}

func (s *stubRepo) ListUnusedHoldings(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, today types.Date) ([]models.Coupon, error) {
	if s.holdingsFn != nil {
		return s.holdingsFn(ctx, userID, storeID, today)
	}
	return nil, nil
}

func (s *stubRepo) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
	if s.findTxFn != nil {
		return s.findTxFn(tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListActiveByStoreWithTx(tx *gorm.DB, storeID uuid.UUID) ([]models.Coupon, error) {
	if s.listActiveTxFn != nil {
		return s.listActiveTxFn(tx, storeID)
	}
	return nil, nil
}

func (s *stubRepo) CountIssuedWithTx(tx *gorm.DB, couponID uuid.UUID) (int64, error) {
	if s.countIssuedTxFn != nil {
		return s.countIssuedTxFn(tx, couponID)
	}
	return 0, nil
}

func (s *stubRepo) ExistsIssuedWithTx(tx *gorm.DB, couponID, userID uuid.UUID) (bool, error) {
	if s.existsIssuedTxFn != nil {
		return s.existsIssuedTxFn(tx, couponID, userID)
	}
	return false, nil
}

func (s *stubRepo) CreateIssuedWithTx(tx *gorm.DB, issued *models.IssuedCoupon) error {
	if s.createIssuedTxFn != nil {
		return s.createIssuedTxFn(tx, issued)
	}
	return nil
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func newTestService(t *testing.T, repo couponRepository) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testWindow(today types.Date) (types.Date, types.Date) {
	return today, today.AddDays(14)
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	today := types.NewDate(2024, 3, 1)
	created := false
	svc := newTestService(t, &stubRepo{
		createFn: func(ctx context.Context, coupon *models.Coupon) error {
			created = true
			return nil
		},
	})

	err := svc.Create(context.Background(), uuid.New(), today, CreateCouponInput{
		Code:      "SPRING10",
		Name:      "Spring Discount",
		StartDate: types.NewDate(2024, 3, 10),
		EndDate:   types.NewDate(2024, 3, 5),
	})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if created {
		t.Fatal("coupon must not be persisted when validation fails")
	}
}

func TestCreatePersistsActiveCoupon(t *testing.T) {
	today := types.NewDate(2024, 3, 1)
	start, end := testWindow(today)
	storeID := uuid.New()

	var saved *models.Coupon
	svc := newTestService(t, &stubRepo{
		createFn: func(ctx context.Context, coupon *models.Coupon) error {
			saved = coupon
			return nil
		},
	})

	err := svc.Create(context.Background(), storeID, today, CreateCouponInput{
		Code:          "SPRING10",
		Name:          "Spring Discount",
		DiscountPrice: 1000,
		MinOrderPrice: 10000,
		LimitCount:    50,
		StartDate:     start,
		EndDate:       end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("coupon was not persisted")
	}
	if saved.StoreID != storeID {
		t.Fatalf("expected store %s, got %s", storeID, saved.StoreID)
	}
	if saved.Status != enums.CouponStatusActive {
		t.Fatalf("expected active status, got %s", saved.Status)
	}
	if saved.ID == uuid.Nil {
		t.Fatal("expected generated coupon id")
	}
}

func TestEditUnknownCoupon(t *testing.T) {
	today := types.NewDate(2024, 3, 1)
	start, end := testWindow(today)
	svc := newTestService(t, &stubRepo{})

	err := svc.Edit(context.Background(), uuid.New(), uuid.New(), today, EditCouponInput{
		Name:      "Renamed",
		StartDate: start,
		EndDate:   end,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEditForeignStoreCoupon(t *testing.T) {
	today := types.NewDate(2024, 3, 1)
	start, end := testWindow(today)
	coupon := &models.Coupon{ID: uuid.New(), StoreID: uuid.New(), Status: enums.CouponStatusActive}

	svc := newTestService(t, &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
	})

	err := svc.Edit(context.Background(), uuid.New(), coupon.ID, today, EditCouponInput{
		Name:      "Renamed",
		StartDate: start,
		EndDate:   end,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for another store's coupon, got %v", err)
	}
}

func TestEditRevalidatesWindow(t *testing.T) {
	today := types.NewDate(2024, 3, 1)
	storeID := uuid.New()
	coupon := &models.Coupon{
		ID:        uuid.New(),
		StoreID:   storeID,
		Status:    enums.CouponStatusActive,
		StartDate: today,
		EndDate:   today.AddDays(7),
	}

	saved := false
	svc := newTestService(t, &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
		saveFn: func(ctx context.Context, c *models.Coupon) error {
			saved = true
			return nil
		},
	})

	err := svc.Edit(context.Background(), storeID, coupon.ID, today, EditCouponInput{
		Name:      "Renamed",
		StartDate: today.AddDays(-3),
		EndDate:   today.AddDays(7),
	})
	if !errors.Is(err, ErrInvalidStartDate) {
		t.Fatalf("expected ErrInvalidStartDate, got %v", err)
	}
	if saved {
		t.Fatal("coupon must not be saved when the edit window is invalid")
	}
}

func TestSoftDeleteRetiresCoupon(t *testing.T) {
	storeID := uuid.New()
	coupon := &models.Coupon{ID: uuid.New(), StoreID: storeID, Status: enums.CouponStatusActive}

	var saved *models.Coupon
	svc := newTestService(t, &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
		saveFn: func(ctx context.Context, c *models.Coupon) error {
			saved = c
			return nil
		},
	})

	if err := svc.SoftDelete(context.Background(), storeID, coupon.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.Status != enums.CouponStatusRetired {
		t.Fatalf("expected coupon retired, got %+v", saved)
	}
}

func TestListForOwnerRecomputesUnusedCount(t *testing.T) {
	storeID := uuid.New()
	first := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 100}
	second := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 10}

	svc := newTestService(t, &stubRepo{
		listActiveFn: func(ctx context.Context, id uuid.UUID) ([]models.Coupon, error) {
			return []models.Coupon{first, second}, nil
		},
		countIssuedFn: func(ctx context.Context, couponIDs []uuid.UUID) (map[uuid.UUID]int, error) {
			return map[uuid.UUID]int{first.ID: 37}, nil
		},
	})

	views, err := svc.ListForOwner(context.Background(), storeID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].UnusedCount != 63 {
		t.Fatalf("expected unused count 63, got %d", views[0].UnusedCount)
	}
	if views[1].UnusedCount != 10 {
		t.Fatalf("expected full unused count for unissued coupon, got %d", views[1].UnusedCount)
	}
}

func TestListForUserFiltersWindowAndMarksIssued(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	storeID := uuid.New()
	userID := uuid.New()

	current := models.Coupon{ID: uuid.New(), StoreID: storeID, StartDate: today.AddDays(-5), EndDate: today.AddDays(5)}
	claimed := models.Coupon{ID: uuid.New(), StoreID: storeID, StartDate: today, EndDate: today}
	upcoming := models.Coupon{ID: uuid.New(), StoreID: storeID, StartDate: today.AddDays(1), EndDate: today.AddDays(10)}
	lapsed := models.Coupon{ID: uuid.New(), StoreID: storeID, StartDate: today.AddDays(-10), EndDate: today.AddDays(-1)}

	svc := newTestService(t, &stubRepo{
		listActiveFn: func(ctx context.Context, id uuid.UUID) ([]models.Coupon, error) {
			return []models.Coupon{current, claimed, upcoming, lapsed}, nil
		},
		issuedByUserFn: func(ctx context.Context, uid uuid.UUID, couponIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
			if uid != userID {
				return nil, fmt.Errorf("unexpected user %s", uid)
			}
			return map[uuid.UUID]bool{claimed.ID: true}, nil
		},
	})

	views, err := svc.ListForUser(context.Background(), userID, storeID, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected only in-window coupons, got %d", len(views))
	}
	if views[0].ID != current.ID || views[0].AlreadyIssued {
		t.Fatalf("unexpected first view: %+v", views[0])
	}
	if views[1].ID != claimed.ID || !views[1].AlreadyIssued {
		t.Fatalf("expected claimed coupon marked issued: %+v", views[1])
	}
}

func TestAvailableInPaymentScopesToStore(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	storeID := uuid.New()

	var capturedStore *uuid.UUID
	svc := newTestService(t, &stubRepo{
		holdingsFn: func(ctx context.Context, userID uuid.UUID, sid *uuid.UUID, d types.Date) ([]models.Coupon, error) {
			capturedStore = sid
			return []models.Coupon{{ID: uuid.New(), StoreID: storeID}}, nil
		},
	})

	views, err := svc.AvailableInPayment(context.Background(), uuid.New(), storeID, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedStore == nil || *capturedStore != storeID {
		t.Fatalf("expected store filter %s, got %v", storeID, capturedStore)
	}
	if len(views) != 1 || !views[0].AlreadyIssued {
		t.Fatalf("holdings must be marked as issued: %+v", views)
	}
}

func TestMyValidCouponsSpansStores(t *testing.T) {
	today := types.NewDate(2024, 3, 15)

	var capturedStore *uuid.UUID
	called := false
	svc := newTestService(t, &stubRepo{
		holdingsFn: func(ctx context.Context, userID uuid.UUID, sid *uuid.UUID, d types.Date) ([]models.Coupon, error) {
			called = true
			capturedStore = sid
			return nil, nil
		},
	})

	if _, err := svc.MyValidCoupons(context.Background(), uuid.New(), today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("holdings query not executed")
	}
	if capturedStore != nil {
		t.Fatalf("expected no store filter, got %v", capturedStore)
	}
}

func TestDownloadIssuesCoupon(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	userID := uuid.New()
	coupon := &models.Coupon{
		ID:         uuid.New(),
		StoreID:    uuid.New(),
		LimitCount: 5,
		StartDate:  today.AddDays(-1),
		EndDate:    today.AddDays(1),
		Status:     enums.CouponStatusActive,
	}

	var issued *models.IssuedCoupon
	repo := &stubRepo{
		findTxFn: func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
		createIssuedTxFn: func(tx *gorm.DB, row *models.IssuedCoupon) error {
			issued = row
			return nil
		},
	}
	runner := &stubTxRunner{}
	svc, err := NewService(repo, runner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Download(context.Background(), userID, coupon.ID, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one transaction, got %d", runner.calls)
	}
	if issued == nil || issued.CouponID != coupon.ID || issued.UserID != userID {
		t.Fatalf("unexpected issuance row: %+v", issued)
	}
	if issued.Status != enums.IssuedCouponStatusUnused {
		t.Fatalf("expected unused status, got %s", issued.Status)
	}
}

func TestDownloadRetiredCouponIsHidden(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	coupon := &models.Coupon{
		ID:        uuid.New(),
		StartDate: today.AddDays(-1),
		EndDate:   today.AddDays(1),
		Status:    enums.CouponStatusRetired,
	}

	svc := newTestService(t, &stubRepo{
		findTxFn: func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
	})

	err := svc.Download(context.Background(), uuid.New(), coupon.ID, today)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for retired coupon, got %v", err)
	}
}

func TestDownloadOutsideWindow(t *testing.T) {
	today := types.NewDate(2024, 3, 15)

	cases := []struct {
		name    string
		start   types.Date
		end     types.Date
		message string
	}{
		{"before start", today.AddDays(1), today.AddDays(10), "coupon not yet available"},
		{"after end", today.AddDays(-10), today.AddDays(-1), "coupon expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coupon := &models.Coupon{
				ID:         uuid.New(),
				LimitCount: 5,
				StartDate:  tc.start,
				EndDate:    tc.end,
				Status:     enums.CouponStatusActive,
			}
			svc := newTestService(t, &stubRepo{
				findTxFn: func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
					return coupon, nil
				},
			})

			err := svc.Download(context.Background(), uuid.New(), coupon.ID, today)
			if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
				t.Fatalf("expected state conflict, got %v", err)
			}
			if pkgerrors.As(err).Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, pkgerrors.As(err).Message())
			}
		})
	}
}

func TestDownloadLimitExhausted(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	coupon := &models.Coupon{
		ID:         uuid.New(),
		LimitCount: 3,
		StartDate:  today,
		EndDate:    today,
		Status:     enums.CouponStatusActive,
	}

	svc := newTestService(t, &stubRepo{
		findTxFn: func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
		countIssuedTxFn: func(tx *gorm.DB, couponID uuid.UUID) (int64, error) {
			return 3, nil
		},
	})

	err := svc.Download(context.Background(), uuid.New(), coupon.ID, today)
	if !errors.Is(err, errLimitExhausted) {
		t.Fatalf("expected limit exhausted, got %v", err)
	}
}

func TestDownloadAlreadyIssued(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	coupon := &models.Coupon{
		ID:         uuid.New(),
		LimitCount: 3,
		StartDate:  today,
		EndDate:    today,
		Status:     enums.CouponStatusActive,
	}

	svc := newTestService(t, &stubRepo{
		findTxFn: func(tx *gorm.DB, id uuid.UUID) (*models.Coupon, error) {
			return coupon, nil
		},
		existsIssuedTxFn: func(tx *gorm.DB, couponID, userID uuid.UUID) (bool, error) {
			return true, nil
		},
	})

	err := svc.Download(context.Background(), uuid.New(), coupon.ID, today)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDownloadAllPartitionsIssuedAndSkipped(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	storeID := uuid.New()
	userID := uuid.New()

	issuable := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 5, StartDate: today, EndDate: today, Status: enums.CouponStatusActive}
	upcoming := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 5, StartDate: today.AddDays(2), EndDate: today.AddDays(9), Status: enums.CouponStatusActive}
	lapsed := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 5, StartDate: today.AddDays(-9), EndDate: today.AddDays(-2), Status: enums.CouponStatusActive}
	exhausted := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 1, StartDate: today, EndDate: today, Status: enums.CouponStatusActive}
	claimed := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 5, StartDate: today, EndDate: today, Status: enums.CouponStatusActive}

	repo := &stubRepo{
		listActiveTxFn: func(tx *gorm.DB, sid uuid.UUID) ([]models.Coupon, error) {
			return []models.Coupon{issuable, upcoming, lapsed, exhausted, claimed}, nil
		},
		countIssuedTxFn: func(tx *gorm.DB, couponID uuid.UUID) (int64, error) {
			if couponID == exhausted.ID {
				return 1, nil
			}
			return 0, nil
		},
		existsIssuedTxFn: func(tx *gorm.DB, couponID, uid uuid.UUID) (bool, error) {
			return couponID == claimed.ID, nil
		},
	}
	runner := &stubTxRunner{}
	svc, err := NewService(repo, runner)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.DownloadAll(context.Background(), userID, storeID, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected the whole batch in one transaction, got %d", runner.calls)
	}
	if len(result.Issued) != 1 || result.Issued[0] != issuable.ID {
		t.Fatalf("unexpected issued set: %v", result.Issued)
	}

	reasons := map[uuid.UUID]string{}
	for _, skipped := range result.Skipped {
		reasons[skipped.CouponID] = skipped.Reason
	}
	if reasons[upcoming.ID] != SkipReasonNotStarted {
		t.Fatalf("expected not_started, got %q", reasons[upcoming.ID])
	}
	if reasons[lapsed.ID] != SkipReasonExpired {
		t.Fatalf("expected expired, got %q", reasons[lapsed.ID])
	}
	if reasons[exhausted.ID] != SkipReasonLimitExhausted {
		t.Fatalf("expected limit_exhausted, got %q", reasons[exhausted.ID])
	}
	if reasons[claimed.ID] != SkipReasonAlreadyIssued {
		t.Fatalf("expected already_issued, got %q", reasons[claimed.ID])
	}
}

func TestDownloadAllStorageFailureAborts(t *testing.T) {
	today := types.NewDate(2024, 3, 15)
	storeID := uuid.New()
	coupon := models.Coupon{ID: uuid.New(), StoreID: storeID, LimitCount: 5, StartDate: today, EndDate: today, Status: enums.CouponStatusActive}

	svc := newTestService(t, &stubRepo{
		listActiveTxFn: func(tx *gorm.DB, sid uuid.UUID) ([]models.Coupon, error) {
			return []models.Coupon{coupon}, nil
		},
		createIssuedTxFn: func(tx *gorm.DB, issued *models.IssuedCoupon) error {
			return fmt.Errorf("connection reset")
		},
	})

	result, err := svc.DownloadAll(context.Background(), uuid.New(), storeID, today)
	if err == nil {
		t.Fatal("expected storage failure to abort the batch")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result on abort, got %+v", result)
	}
}
