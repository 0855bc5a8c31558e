package profiles

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/martlet-backend/pkg/db/models"
	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// ProfileRepository is the persistence surface consumed by services.
type ProfileRepository interface {
	WithTx(tx *gorm.DB) ProfileRepository
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error)
	RecordSpend(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Profile, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.ProfileStatus) error
	CreateWalletEntry(ctx context.Context, entry *models.WalletEntry) (*models.WalletEntry, error)
	ListWalletEntries(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WalletEntry, error)
}

// Repository exposes persistence operations for wallet profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProfileRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new profile row.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByUserID loads the profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Credit atomically adds the amount to the wallet balance.
func (r *Repository) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// Debit atomically subtracts the amount, guarded so the balance never goes
// negative. Returns false when funds were insufficient.
func (r *Repository) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RecordSpend accumulates lifetime spend and returns the refreshed profile so
// the caller can recompute the loyalty tier.
func (r *Repository) RecordSpend(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("total_spent", gorm.Expr("total_spent + ?", amount)).Error; err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// UpdateStatus persists a recomputed loyalty tier.
func (r *Repository) UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.ProfileStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("status", status).Error
}

// CreateWalletEntry appends an immutable ledger line.
func (r *Repository) CreateWalletEntry(ctx context.Context, entry *models.WalletEntry) (*models.WalletEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListWalletEntries returns the newest ledger lines for a profile.
func (r *Repository) ListWalletEntries(ctx context.Context, profileID uuid.UUID, limit int) ([]models.WalletEntry, error) {
	var rows []models.WalletEntry
	q := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
