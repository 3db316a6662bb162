package cargo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
)

type stubRepo struct {
	listFn   func(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error)
	createFn func(tx *gorm.DB, cargo *models.FlowerCargo) error
	findFn   func(tx *gorm.DB, storeID, flowerID uuid.UUID) (*models.FlowerCargo, error)
	saveFn   func(tx *gorm.DB, cargo *models.FlowerCargo) error
}

func (s *stubRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.FlowerCargo, error) {
	if s.listFn != nil {
		return s.listFn(ctx, storeID)
	}
	return nil, nil
}

func (s *stubRepo) CreateWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error {
	if s.createFn != nil {
		return s.createFn(tx, cargo)
	}
	return nil
}

func (s *stubRepo) FindWithTx(tx *gorm.DB, storeID, flowerID uuid.UUID) (*models.FlowerCargo, error) {
	if s.findFn != nil {
		return s.findFn(tx, storeID, flowerID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) SaveWithTx(tx *gorm.DB, cargo *models.FlowerCargo) error {
	if s.saveFn != nil {
		return s.saveFn(tx, cargo)
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

func TestRegisterValidatesFlowers(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.Register(context.Background(), uuid.New(), []RegisterFlowerInput{
		{FlowerID: uuid.New(), FlowerName: "Rose", Stock: -1},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterCreatesAllRows(t *testing.T) {
	storeID := uuid.New()
	var created []models.FlowerCargo

	repo := &stubRepo{
		createFn: func(tx *gorm.DB, cargo *models.FlowerCargo) error {
			created = append(created, *cargo)
			return nil
		},
	}
	runner := &stubTxRunner{}
	svc, _ := NewService(repo, runner)

	err := svc.Register(context.Background(), storeID, []RegisterFlowerInput{
		{FlowerID: uuid.New(), FlowerName: "Rose", Stock: 10},
		{FlowerID: uuid.New(), FlowerName: "Tulip", Stock: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one transaction, got %d", runner.calls)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(created))
	}
	if created[0].StoreID != storeID || created[0].FlowerName != "Rose" {
		t.Fatalf("unexpected row: %+v", created[0])
	}
}

func TestModifyStockUnknownFlowerAbortsBatch(t *testing.T) {
	storeID := uuid.New()
	known := uuid.New()
	unknown := uuid.New()

	saves := 0
	repo := &stubRepo{
		findFn: func(tx *gorm.DB, sid, flowerID uuid.UUID) (*models.FlowerCargo, error) {
			if flowerID == known {
				return &models.FlowerCargo{StoreID: sid, FlowerID: flowerID, FlowerName: "Rose", Stock: 5}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		saveFn: func(tx *gorm.DB, cargo *models.FlowerCargo) error {
			saves++
			return nil
		},
	}
	runner := &stubTxRunner{}
	svc, _ := NewService(repo, runner)

	err := svc.ModifyStock(context.Background(), storeID, []StockModifyInput{
		{FlowerID: known, Stock: 3},
		{FlowerID: unknown, Stock: 7},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected the batch in one transaction, got %d", runner.calls)
	}
	if saves != 1 {
		t.Fatalf("expected the save before the failure to stay inside the aborted transaction, got %d", saves)
	}
}

func TestModifyStockRejectsNegativeTarget(t *testing.T) {
	storeID := uuid.New()
	flowerID := uuid.New()

	svc, _ := NewService(&stubRepo{
		findFn: func(tx *gorm.DB, sid, fid uuid.UUID) (*models.FlowerCargo, error) {
			return &models.FlowerCargo{StoreID: sid, FlowerID: fid, Stock: 5}, nil
		},
	}, &stubTxRunner{})

	err := svc.ModifyStock(context.Background(), storeID, []StockModifyInput{
		{FlowerID: flowerID, Stock: -2},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestModifyStockSetsAbsoluteValues(t *testing.T) {
	storeID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	rows := map[uuid.UUID]*models.FlowerCargo{
		first:  {StoreID: storeID, FlowerID: first, FlowerName: "Rose", Stock: 5},
		second: {StoreID: storeID, FlowerID: second, FlowerName: "Tulip", Stock: 9},
	}
	var saved []models.FlowerCargo
	svc, _ := NewService(&stubRepo{
		findFn: func(tx *gorm.DB, sid, flowerID uuid.UUID) (*models.FlowerCargo, error) {
			row, ok := rows[flowerID]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return row, nil
		},
		saveFn: func(tx *gorm.DB, cargo *models.FlowerCargo) error {
			saved = append(saved, *cargo)
			return nil
		},
	}, &stubTxRunner{})

	err := svc.ModifyStock(context.Background(), storeID, []StockModifyInput{
		{FlowerID: first, Stock: 0},
		{FlowerID: second, Stock: 42},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(saved))
	}
	if saved[0].Stock != 0 || saved[1].Stock != 42 {
		t.Fatalf("stock targets not applied: %+v", saved)
	}
}

func TestModifyStockRequiresItems(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubTxRunner{})

	err := svc.ModifyStock(context.Background(), uuid.New(), nil)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
