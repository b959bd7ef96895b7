package books

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// BookDTO is the read model returned to the HTTP layer.
type BookDTO struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Category      *string          `json:"category,omitempty"`
	Medium        enums.BookMedium `json:"medium"`
	Status        enums.BookStatus `json:"status"`
	Stock         int              `json:"stock"`
	MinimumStock  int              `json:"minimum_stock"`
	PhysicalPrice *decimal.Decimal `json:"physical_price,omitempty"`
	DigitalPrice  *decimal.Decimal `json:"digital_price,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewBookDTO maps the model to its DTO.
func NewBookDTO(book *models.Book) *BookDTO {
	if book == nil {
		return nil
	}
	return &BookDTO{
		ID:            book.ID,
		Title:         book.Title,
		Category:      book.Category,
		Medium:        book.Medium,
		Status:        book.Status,
		Stock:         book.Stock,
		MinimumStock:  book.MinimumStock,
		PhysicalPrice: book.PhysicalPrice,
		DigitalPrice:  book.DigitalPrice,
		CreatedAt:     book.CreatedAt,
	}
}

// NewBookDTOs maps a slice of models.
func NewBookDTOs(rows []models.Book) []BookDTO {
	out := make([]BookDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBookDTO(&rows[i]))
	}
	return out
}
