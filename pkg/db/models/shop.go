package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a seller a good belongs to. Read-only for the storefront core.
type Shop struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
