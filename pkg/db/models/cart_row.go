package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/martlet-backend/pkg/enums"
)

// CartRow is a (user, good) line item. At most one unpaid row may exist per
// pair, enforced by a partial unique index; paid rows accumulate as history
// and keep a reference to the order that covered them.
type CartRow struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	GoodID      uuid.UUID         `gorm:"column:good_id;type:uuid;not null"`
	Quantity    int               `gorm:"column:quantity;not null"`
	PaymentFlag enums.PaymentFlag `gorm:"column:payment_flag;type:text;not null;default:'unpaid'"`
	OrderID     *uuid.UUID        `gorm:"column:order_id;type:uuid"`
	Good        *Good             `gorm:"foreignKey:GoodID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
