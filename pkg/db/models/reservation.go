package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// Reservation is a FIFO claim on a book. At most one active reservation
// may exist per (user, book) pair; the oldest active reservation wins when
// a loan is requested.
type Reservation struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	BookID    uuid.UUID               `gorm:"column:book_id;type:uuid;not null;index"`
	Status    enums.ReservationStatus `gorm:"column:status;type:reservation_status;not null;default:'active'"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
	Book *Book `gorm:"foreignKey:BookID"`
}
