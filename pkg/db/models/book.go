package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// Book is a catalog entry. Stock is meaningful for physical copies only;
// Status is an advisory display field and is never consulted for
// availability. Stock must be >= 0 after every operation.
type Book struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title         string           `gorm:"column:title;not null"`
	Category      *string          `gorm:"column:category"`
	Medium        enums.BookMedium `gorm:"column:medium;type:book_medium;not null"`
	Status        enums.BookStatus `gorm:"column:status;type:book_status;not null;default:'available'"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	MinimumStock  int              `gorm:"column:minimum_stock;not null;default:1"`
	PhysicalPrice *decimal.Decimal `gorm:"column:physical_price;type:numeric(12,2)"`
	DigitalPrice  *decimal.Decimal `gorm:"column:digital_price;type:numeric(12,2)"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceForMedium returns the list price matching the book's medium, or nil
// when none is set.
func (b *Book) PriceForMedium() *decimal.Decimal {
	if b.Medium.IsPhysical() {
		return b.PhysicalPrice
	}
	return b.DigitalPrice
}
