package purchases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amolina-dev/biblioteca-backend/internal/repo"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// Repository bundles the entity reads and writes the purchase policy needs.
type Repository struct {
	repo.Base
}

// NewRepository constructs a purchase repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// GetUser loads a user row.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBookForUpdate loads a book row under a row-level write lock so
// concurrent purchases of the same book serialize. SQLite has no FOR
// UPDATE; its single-writer model covers the same guarantee in tests.
func (r *Repository) GetBookForUpdate(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	query := r.DB(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var book models.Book
	if err := query.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindActiveLoan returns the user's active loan of the book, or nil when
// none exists.
func (r *Repository) FindActiveLoan(ctx context.Context, userID, bookID uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := r.DB(ctx).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, enums.LoanStatusActive).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loan, nil
}

// Create inserts the purchase row.
func (r *Repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.DB(ctx).Create(purchase).Error
}

// SaveBook persists all fields of an already loaded book.
func (r *Repository) SaveBook(ctx context.Context, book *models.Book) error {
	return r.DB(ctx).Save(book).Error
}

// List returns purchases newest-first.
func (r *Repository) List(ctx context.Context) ([]models.Purchase, error) {
	var rows []models.Purchase
	if err := r.DB(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
