package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// User is a library patron. Fines accumulate on late or lost returns and
// gate future borrowing and purchasing; only the return flow mutates them.
// Users are never hard-deleted while loans or reservations reference them.
type User struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Type      enums.UserType  `gorm:"column:type;type:user_type;not null"`
	Fines     decimal.Decimal `gorm:"column:fines;type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
