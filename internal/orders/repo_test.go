package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
	"github.com/storefrontlabs/martlet-backend/pkg/pagination"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
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
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  created_at DATETIME
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
);`}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, amount string, createdAt time.Time) models.Order {
	t.Helper()

	order := models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestOrderRepositoryCreateAssignsID(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := models.Order{
		UserID: uuid.New(),
		Amount: decimal.RequireFromString("42.50"),
	}
	require.NoError(t, repo.Create(ctx, &order))
	require.NotEqual(t, uuid.Nil, order.ID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, found.Amount.Equal(decimal.RequireFromString("42.50")))
}

func TestOrderRepositoryWithTxNilKeepsConnection(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	bound := repo.WithTx(nil)
	order := models.Order{
		UserID: uuid.New(),
		Amount: decimal.RequireFromString("5.00"),
	}
	require.NoError(t, bound.Create(context.Background(), &order))
}

func TestOrderRepositoryListByUserPaginates(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedOrder(t, db, userID, "10.00", base)
	middle := seedOrder(t, db, userID, "20.00", base.Add(time.Minute))
	newest := seedOrder(t, db, userID, "30.00", base.Add(2*time.Minute))
	seedOrder(t, db, uuid.New(), "99.00", base.Add(3*time.Minute))

	firstPage, nextCursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.Equal(t, newest.ID, firstPage[0].ID)
	require.Equal(t, middle.ID, firstPage[1].ID)
	require.NotEmpty(t, nextCursor)

	secondPage, lastCursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2, Cursor: nextCursor})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	require.Equal(t, oldest.ID, secondPage[0].ID)
	require.Empty(t, lastCursor)
}

func TestOrderRepositoryListByUserPreloadsRows(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	good := models.Good{
		ID:         uuid.New(),
		ShopID:     uuid.New(),
		CategoryID: uuid.New(),
		Name:       "Kettle",
		Price:      decimal.RequireFromString("15.00"),
		Amount:     3,
	}
	require.NoError(t, db.Create(&good).Error)

	order := seedOrder(t, db, userID, "30.00", time.Now().UTC())
	row := models.CartRow{
		ID:          uuid.New(),
		UserID:      userID,
		GoodID:      good.ID,
		Quantity:    2,
		PaymentFlag: enums.PaymentFlagPaid,
		OrderID:     &order.ID,
	}
	require.NoError(t, db.Create(&row).Error)

	page, _, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Len(t, page[0].Rows, 1)
	require.NotNil(t, page[0].Rows[0].Good)
	require.Equal(t, "Kettle", page[0].Rows[0].Good.Name)

	dto := ToOrderListDTO(page, "")
	require.Len(t, dto.Orders, 1)
	require.Equal(t, "Kettle", dto.Orders[0].Rows[0].Name)
	require.Equal(t, 2, dto.Orders[0].Rows[0].Quantity)
}
