package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// Profile holds the per-user wallet balance and spend tier.
type Profile struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Balance    decimal.Decimal     `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	TotalSpent decimal.Decimal     `gorm:"column:total_spent;type:numeric(12,2);not null;default:0"`
	Status     enums.ProfileStatus `gorm:"column:status;type:text;not null;default:'standard'"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
