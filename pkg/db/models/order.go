package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the immutable checkout receipt. Rows are the cart rows it covered;
// they keep existing (as paid) independent of the order.
type Order struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Rows      []CartRow       `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
