package books

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/internal/repo"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a book repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts the book row.
func (r *Repository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := r.DB(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// FindByID loads a single book.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.DB(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Save persists all fields of an already loaded book.
func (r *Repository) Save(ctx context.Context, book *models.Book) error {
	return r.DB(ctx).Save(book).Error
}

// List returns catalog entries ordered by title.
func (r *Repository) List(ctx context.Context) ([]models.Book, error) {
	var rows []models.Book
	if err := r.DB(ctx).Order("title ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
