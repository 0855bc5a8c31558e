package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// Good is a catalog product. Amount is the on-hand stock and never goes
// negative; it is reduced when quantities are reserved into a cart.
type Good struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID     uuid.UUID          `gorm:"column:shop_id;type:uuid;not null"`
	CategoryID uuid.UUID          `gorm:"column:category_id;type:uuid;not null"`
	Name       string             `gorm:"column:name;type:text;not null"`
	Price      decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Amount     int                `gorm:"column:amount;not null;default:0"`
	Activity   enums.GoodActivity `gorm:"column:activity;type:text;not null;default:'active'"`
	Shop       *Shop              `gorm:"foreignKey:ShopID"`
	Category   *Category          `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
