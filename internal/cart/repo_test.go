package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS goods (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  amount INTEGER NOT NULL DEFAULT 0,
  activity TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_rows (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  good_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  payment_flag TEXT NOT NULL DEFAULT 'unpaid',
  order_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_rows_user_good_unpaid
  ON cart_rows (user_id, good_id)
  WHERE payment_flag = 'unpaid';`}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCartGood(t *testing.T, db *gorm.DB, price int64) *models.Good {
	t.Helper()

	shop := &models.Shop{ID: uuid.New(), Name: "Corner Shop"}
	require.NoError(t, db.Create(shop).Error)
	category := &models.Category{ID: uuid.New(), Name: "Misc"}
	require.NoError(t, db.Create(category).Error)

	good := &models.Good{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		CategoryID: category.ID,
		Name:       "Widget",
		Price:      decimal.NewFromInt(price),
		Amount:     10,
		Activity:   enums.GoodActivityActive,
	}
	require.NoError(t, db.Create(good).Error)
	return good
}

func TestUnpaidRowUniquePerUserGood(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	good := seedCartGood(t, db, 10)

	_, err := repo.Create(ctx, &models.CartRow{UserID: userID, GoodID: good.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.CartRow{UserID: userID, GoodID: good.ID, Quantity: 2})
	require.Error(t, err, "second unpaid row for the same good must hit the partial index")
}

func TestMarkPaidFreesTheUniqueSlot(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	good := seedCartGood(t, db, 10)

	row, err := repo.Create(ctx, &models.CartRow{UserID: userID, GoodID: good.ID, Quantity: 1})
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, repo.MarkPaid(ctx, []uuid.UUID{row.ID}, orderID))

	// paid rows no longer occupy the partial index
	_, err = repo.Create(ctx, &models.CartRow{UserID: userID, GoodID: good.ID, Quantity: 3})
	require.NoError(t, err)

	var paid models.CartRow
	require.NoError(t, db.Where("id = ?", row.ID).First(&paid).Error)
	require.Equal(t, enums.PaymentFlagPaid, paid.PaymentFlag)
	require.NotNil(t, paid.OrderID)
	require.Equal(t, orderID, *paid.OrderID)
}

func TestListUnpaidByUserPreloadsGoods(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	good := seedCartGood(t, db, 25)

	row, err := repo.Create(ctx, &models.CartRow{UserID: userID, GoodID: good.ID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, repo.AddQuantity(ctx, row.ID, 3))

	// another user's row stays out of the listing
	_, err = repo.Create(ctx, &models.CartRow{UserID: uuid.New(), GoodID: good.ID, Quantity: 1})
	require.NoError(t, err)

	rows, err := repo.ListUnpaidByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 5, rows[0].Quantity)
	require.NotNil(t, rows[0].Good)
	require.Equal(t, "Widget", rows[0].Good.Name)

	dto := ToCartDTO(rows)
	require.True(t, dto.Total.Equal(decimal.NewFromInt(125)), "got %s", dto.Total)
}
