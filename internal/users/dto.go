package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// UserDTO is the read model returned to the HTTP layer.
type UserDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      enums.UserType  `json:"type"`
	Fines     decimal.Decimal `json:"fines"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewUserDTO maps the model to its DTO.
func NewUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Type:      user.Type,
		Fines:     user.Fines,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserDTOs maps a slice of models.
func NewUserDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewUserDTO(&rows[i]))
	}
	return out
}
