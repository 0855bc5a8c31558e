package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// RowRepository is the persistence surface consumed by services.
type RowRepository interface {
	WithTx(tx *gorm.DB) RowRepository
	Create(ctx context.Context, row *models.CartRow) (*models.CartRow, error)
	FindUnpaid(ctx context.Context, userID, goodID uuid.UUID) (*models.CartRow, error)
	AddQuantity(ctx context.Context, rowID uuid.UUID, qty int) error
	ListUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]models.CartRow, error)
	MarkPaid(ctx context.Context, rowIDs []uuid.UUID, orderID uuid.UUID) error
}

// Repository exposes persistence operations for cart rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) RowRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new unpaid cart row.
func (r *Repository) Create(ctx context.Context, row *models.CartRow) (*models.CartRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.PaymentFlag == "" {
		row.PaymentFlag = enums.PaymentFlagUnpaid
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindUnpaid loads the single unpaid row for a (user, good) pair.
func (r *Repository) FindUnpaid(ctx context.Context, userID, goodID uuid.UUID) (*models.CartRow, error) {
	var row models.CartRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND good_id = ? AND payment_flag = ?", userID, goodID, enums.PaymentFlagUnpaid).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// AddQuantity atomically accumulates quantity on an existing row.
func (r *Repository) AddQuantity(ctx context.Context, rowID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRow{}).
		Where("id = ?", rowID).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}

// ListUnpaidByUser returns the open cart rows with their goods, oldest first.
func (r *Repository) ListUnpaidByUser(ctx context.Context, userID uuid.UUID) ([]models.CartRow, error) {
	var rows []models.CartRow
	err := r.db.WithContext(ctx).
		Preload("Good").
		Preload("Good.Shop").
		Preload("Good.Category").
		Where("user_id = ? AND payment_flag = ?", userID, enums.PaymentFlagUnpaid).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkPaid flips rows to paid and stamps the covering order.
func (r *Repository) MarkPaid(ctx context.Context, rowIDs []uuid.UUID, orderID uuid.UUID) error {
	if len(rowIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CartRow{}).
		Where("id IN ?", rowIDs).
		Updates(map[string]any{
			"payment_flag": enums.PaymentFlagPaid,
			"order_id":     orderID,
		}).Error
}
