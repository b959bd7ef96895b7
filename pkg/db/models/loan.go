package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// Loan is a time-bounded grant of a book to a user. EndDate holds the due
// date while the loan is active; the return flow overwrites it with the
// actual return timestamp (deliberate field reuse carried over from the
// original system). ExtensionUsed is a one-time flag.
type Loan struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	BookID        uuid.UUID        `gorm:"column:book_id;type:uuid;not null;index"`
	StartDate     time.Time        `gorm:"column:start_date;not null"`
	EndDate       time.Time        `gorm:"column:end_date;not null"`
	Status        enums.LoanStatus `gorm:"column:status;type:loan_status;not null;default:'active'"`
	ExtensionUsed bool             `gorm:"column:extension_used;not null;default:false"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
	Book *Book `gorm:"foreignKey:BookID"`
}
