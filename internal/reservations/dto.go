package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// ReservationDTO is the read model returned to the HTTP layer.
type ReservationDTO struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	BookID    uuid.UUID               `json:"book_id"`
	Status    enums.ReservationStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewReservationDTO maps the model to its DTO.
func NewReservationDTO(reservation *models.Reservation) *ReservationDTO {
	if reservation == nil {
		return nil
	}
	return &ReservationDTO{
		ID:        reservation.ID,
		UserID:    reservation.UserID,
		BookID:    reservation.BookID,
		Status:    reservation.Status,
		CreatedAt: reservation.CreatedAt,
	}
}

// NewReservationDTOs maps a slice of models.
func NewReservationDTOs(rows []models.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewReservationDTO(&rows[i]))
	}
	return out
}
