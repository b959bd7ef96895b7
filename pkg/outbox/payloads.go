package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// RestockRequestedPayload documents an automatic restock triggered when a
// purchase drove stock below the book's minimum.
type RestockRequestedPayload struct {
	BookID        uuid.UUID `json:"book_id"`
	Title         string    `json:"title"`
	PreviousStock int       `json:"previous_stock"`
	RestockedTo   int       `json:"restocked_to"`
	MinimumStock  int       `json:"minimum_stock"`
}

// OverdueReturnedPayload documents a return that accrued a fine.
type OverdueReturnedPayload struct {
	LoanID   uuid.UUID       `json:"loan_id"`
	UserID   uuid.UUID       `json:"user_id"`
	BookID   uuid.UUID       `json:"book_id"`
	DaysLate int             `json:"days_late"`
	Lost     bool            `json:"lost"`
	Fine     decimal.Decimal `json:"fine"`
}

// NewRestockRequested builds the outbox row for a restock request.
func NewRestockRequested(payload RestockRequestedPayload) (models.OutboxEvent, error) {
	return newEvent(enums.EventBookRestockRequested, enums.AggregateBook, payload.BookID, payload)
}

// NewOverdueReturned builds the outbox row for a fined return.
func NewOverdueReturned(payload OverdueReturnedPayload) (models.OutboxEvent, error) {
	return newEvent(enums.EventLoanOverdueReturned, enums.AggregateLoan, payload.LoanID, payload)
}

func newEvent(eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID, payload any) (models.OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       raw,
	}, nil
}
