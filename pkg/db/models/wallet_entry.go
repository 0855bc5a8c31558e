package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// WalletEntry is an immutable ledger line recorded for every balance mutation.
type WalletEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID             `gorm:"column:profile_id;type:uuid;not null;index"`
	Type      enums.WalletEntryType `gorm:"column:type;type:text;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	OrderID   *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
