package subscriptions

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
	"github.com/bloombay/store-backend/pkg/types"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	subscriptions := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  order_subscription_id TEXT NOT NULL UNIQUE,
  subscription_product_id TEXT NOT NULL,
  code TEXT NOT NULL,
  delivery_date DATE NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(subscriptions).Error)
	return conn
}

func seedSubscription(t *testing.T, conn *gorm.DB, storeID, userID uuid.UUID, deliveryDate types.Date, createdAt time.Time) models.Subscription {
	t.Helper()
	row := models.Subscription{
		ID:                    uuid.New(),
		StoreID:               storeID,
		UserID:                userID,
		OrderSubscriptionID:   uuid.New(),
		SubscriptionProductID: uuid.New(),
		Code:                  "SUB-TEST",
		DeliveryDate:          deliveryDate,
		CreatedAt:             createdAt,
	}
	require.NoError(t, conn.Create(&row).Error)
	return row
}

func TestRepositoryFindByOrderSubscriptionID(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	row := seedSubscription(t, conn, uuid.New(), uuid.New(), types.NewDate(2024, 5, 10), base)

	found, err := repo.FindByOrderSubscriptionID(ctx, row.OrderSubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)
	assert.Equal(t, types.NewDate(2024, 5, 10), found.DeliveryDate)

	_, err = repo.FindByOrderSubscriptionID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateOrderSubscriptionID(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	row := seedSubscription(t, conn, uuid.New(), uuid.New(), types.NewDate(2024, 5, 10), base)

	dup := models.Subscription{
		ID:                    uuid.New(),
		StoreID:               row.StoreID,
		UserID:                row.UserID,
		OrderSubscriptionID:   row.OrderSubscriptionID,
		SubscriptionProductID: uuid.New(),
		Code:                  "SUB-DUP",
		DeliveryDate:          types.NewDate(2024, 5, 11),
	}
	err := repo.Create(ctx, &dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "subscriptions_order_subscription_id_key"))
}

func TestRepositoryListByUser(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	older := seedSubscription(t, conn, uuid.New(), userID, types.NewDate(2024, 5, 10), base)
	newer := seedSubscription(t, conn, uuid.New(), userID, types.NewDate(2024, 5, 12), base.Add(time.Hour))
	seedSubscription(t, conn, uuid.New(), uuid.New(), types.NewDate(2024, 5, 10), base)

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryListByStoreAndDate(t *testing.T) {
	conn := setupSubscriptionsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storeID := uuid.New()
	target := types.NewDate(2024, 5, 10)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	match := seedSubscription(t, conn, storeID, uuid.New(), target, base)
	seedSubscription(t, conn, storeID, uuid.New(), target.AddDays(1), base)
	seedSubscription(t, conn, uuid.New(), uuid.New(), target, base)

	rows, err := repo.ListByStoreAndDate(ctx, storeID, target)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}
