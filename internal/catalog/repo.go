package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// GoodRepository is the persistence surface consumed by services.
type GoodRepository interface {
	WithTx(tx *gorm.DB) GoodRepository
	ListAvailable(ctx context.Context) ([]models.Good, error)
	AveragePrice(ctx context.Context) (decimal.Decimal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Good, error)
	ReserveStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

// Repository exposes persistence operations for the goods catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) GoodRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListAvailable returns active goods with stock on hand, newest first.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.Good, error) {
	var rows []models.Good
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Category").
		Where("activity = ? AND amount > 0", enums.GoodActivityActive).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AveragePrice computes the mean price across the whole catalog, listed or not.
func (r *Repository) AveragePrice(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Good{}).
		Select("AVG(price)").
		Scan(&avg).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal.Round(2), nil
}

// FindByID loads a good by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Good, error) {
	var good models.Good
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&good).Error; err != nil {
		return nil, err
	}
	return &good, nil
}

// ReserveStock atomically decrements stock, guarded so it never goes negative.
// Returns false when the requested quantity exceeds what is on hand.
func (r *Repository) ReserveStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Good{}).
		Where("id = ? AND activity = ? AND amount >= ?", id, enums.GoodActivityActive, qty).
		Update("amount", gorm.Expr("amount - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
