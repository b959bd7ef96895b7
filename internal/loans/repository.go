package loans

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

// Repository bundles the entity reads and writes the lending policy needs.
// Every method runs against the DB handle it was constructed with, so a
// transaction-scoped copy sees a consistent snapshot.
type Repository struct {
	repo.Base
}

// NewRepository constructs a loan repository bound to the provided gorm DB.
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

// GetBook loads a book row.
func (r *Repository) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.DB(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookForUpdate loads a book row under a row-level write lock so two
// concurrent grants against the same book serialize. SQLite has no FOR
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

// GetLoan loads a loan row.
func (r *Repository) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	if err := r.DB(ctx).First(&loan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// CountActiveLoans counts the user's currently active loans.
func (r *Repository) CountActiveLoans(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Loan{}).
		Where("user_id = ? AND status = ?", userID, enums.LoanStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// FindOldestActiveReservation returns the head of the book's reservation
// queue (FIFO by creation time), or nil when the queue is empty.
func (r *Repository) FindOldestActiveReservation(ctx context.Context, bookID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.DB(ctx).
		Where("book_id = ? AND status = ?", bookID, enums.ReservationStatusActive).
		Order("created_at ASC").
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

// FindLastLoan returns the user's most recent loan of the book regardless
// of status, or nil when the user never borrowed it.
func (r *Repository) FindLastLoan(ctx context.Context, userID, bookID uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := r.DB(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("start_date DESC").
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loan, nil
}

// CreateLoan inserts the loan row.
func (r *Repository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	return r.DB(ctx).Create(loan).Error
}

// SaveLoan persists all fields of an already loaded loan.
func (r *Repository) SaveLoan(ctx context.Context, loan *models.Loan) error {
	return r.DB(ctx).Save(loan).Error
}

// SaveBook persists all fields of an already loaded book.
func (r *Repository) SaveBook(ctx context.Context, book *models.Book) error {
	return r.DB(ctx).Save(book).Error
}

// SaveUser persists all fields of an already loaded user.
func (r *Repository) SaveUser(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Save(user).Error
}

// SaveReservation persists all fields of an already loaded reservation.
func (r *Repository) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.DB(ctx).Save(reservation).Error
}

// List returns loans newest-first.
func (r *Repository) List(ctx context.Context) ([]models.Loan, error) {
	var rows []models.Loan
	if err := r.DB(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
