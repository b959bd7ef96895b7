package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base wraps the gorm handle every domain repository embeds. A repository
// built from a transaction handle scopes all its queries to that
// transaction, which is how the policy services read and write one
// consistent snapshot.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the given handle, which may be a root connection or an
// open transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle bound to ctx so cancellation propagates into
// queries. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
