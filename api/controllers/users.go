package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/api/responses"
	"github.com/amolina-dev/biblioteca-backend/api/validators"
	"github.com/amolina-dev/biblioteca-backend/internal/users"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

type createUserRequest struct {
	Name  string           `json:"name" validate:"required,max=200"`
	Type  string           `json:"type" validate:"required"`
	Fines *decimal.Decimal `json:"fines,omitempty"`
}

func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateUser(r.Context(), users.CreateUserInput{
			Name:  req.Name,
			Type:  enums.UserType(req.Type),
			Fines: req.Fines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func GetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
