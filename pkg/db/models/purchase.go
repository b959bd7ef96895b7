package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase records a completed sale. Rows are immutable once created;
// there are no update or cancel flows.
type Purchase struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	BookID     uuid.UUID       `gorm:"column:book_id;type:uuid;not null;index"`
	Quantity   int             `gorm:"column:quantity;not null;default:1"`
	FinalPrice decimal.Decimal `gorm:"column:final_price;type:numeric(12,2);not null"`
	Date       time.Time       `gorm:"column:date;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"`
	Book *Book `gorm:"foreignKey:BookID"`
}
