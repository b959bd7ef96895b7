package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
)

// Service exposes catalog management operations.
type Service interface {
	CreateBook(ctx context.Context, input CreateBookInput) (*BookDTO, error)
	GetBook(ctx context.Context, id uuid.UUID) (*BookDTO, error)
	ListBooks(ctx context.Context) ([]BookDTO, error)
}

// CreateBookInput holds the validated payload to create a catalog entry.
type CreateBookInput struct {
	Title         string
	Category      *string
	Medium        enums.BookMedium
	Status        enums.BookStatus
	Stock         int
	MinimumStock  *int
	PhysicalPrice *decimal.Decimal
	DigitalPrice  *decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a book service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("book repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateBook(ctx context.Context, input CreateBookInput) (*BookDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	medium, err := enums.ParseBookMedium(string(input.Medium))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid book medium")
	}

	status := enums.BookStatusAvailable
	if strings.TrimSpace(string(input.Status)) != "" {
		status, err = enums.ParseBookStatus(string(input.Status))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid book status")
		}
	}

	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	minimumStock := 1
	if input.MinimumStock != nil {
		if *input.MinimumStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum stock cannot be negative")
		}
		minimumStock = *input.MinimumStock
	}
	if input.PhysicalPrice != nil && input.PhysicalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "physical price cannot be negative")
	}
	if input.DigitalPrice != nil && input.DigitalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "digital price cannot be negative")
	}

	var category *string
	if input.Category != nil {
		trimmed := strings.TrimSpace(*input.Category)
		if trimmed != "" {
			category = &trimmed
		}
	}

	book := &models.Book{
		ID:            uuid.New(),
		Title:         title,
		Category:      category,
		Medium:        medium,
		Status:        status,
		Stock:         input.Stock,
		MinimumStock:  minimumStock,
		PhysicalPrice: input.PhysicalPrice,
		DigitalPrice:  input.DigitalPrice,
	}
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert book")
	}
	return NewBookDTO(created), nil
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("book")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load book")
	}
	return NewBookDTO(book), nil
}

func (s *service) ListBooks(ctx context.Context) ([]BookDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list books")
	}
	return NewBookDTOs(rows), nil
}
