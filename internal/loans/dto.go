package loans

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// LoanDTO is the read model returned to the HTTP layer. EndDate is the
// due date while the loan is active and the actual return timestamp once
// it is returned.
type LoanDTO struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	BookID        uuid.UUID        `json:"book_id"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	Status        enums.LoanStatus `json:"status"`
	ExtensionUsed bool             `json:"extension_used"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ReturnResultDTO reports the charge computed while closing a loan.
type ReturnResultDTO struct {
	Loan     LoanDTO         `json:"loan"`
	Fine     decimal.Decimal `json:"fine"`
	DaysLate int             `json:"days_late"`
	Lost     bool            `json:"lost"`
}

// NewLoanDTO maps the model to its DTO.
func NewLoanDTO(loan *models.Loan) *LoanDTO {
	if loan == nil {
		return nil
	}
	return &LoanDTO{
		ID:            loan.ID,
		UserID:        loan.UserID,
		BookID:        loan.BookID,
		StartDate:     loan.StartDate,
		EndDate:       loan.EndDate,
		Status:        loan.Status,
		ExtensionUsed: loan.ExtensionUsed,
		CreatedAt:     loan.CreatedAt,
	}
}

// NewLoanDTOs maps a slice of models.
func NewLoanDTOs(rows []models.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewLoanDTO(&rows[i]))
	}
	return out
}
