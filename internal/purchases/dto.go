package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
)

// PurchaseDTO is the read model returned to the HTTP layer.
type PurchaseDTO struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	BookID     uuid.UUID       `json:"book_id"`
	Quantity   int             `json:"quantity"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewPurchaseDTO maps the model to its DTO.
func NewPurchaseDTO(purchase *models.Purchase) *PurchaseDTO {
	if purchase == nil {
		return nil
	}
	return &PurchaseDTO{
		ID:         purchase.ID,
		UserID:     purchase.UserID,
		BookID:     purchase.BookID,
		Quantity:   purchase.Quantity,
		FinalPrice: purchase.FinalPrice,
		Date:       purchase.Date,
		CreatedAt:  purchase.CreatedAt,
	}
}

// NewPurchaseDTOs maps a slice of models.
func NewPurchaseDTOs(rows []models.Purchase) []PurchaseDTO {
	out := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPurchaseDTO(&rows[i]))
	}
	return out
}
