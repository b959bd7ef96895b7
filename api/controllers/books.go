package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/api/responses"
	"github.com/amolina-dev/biblioteca-backend/api/validators"
	"github.com/amolina-dev/biblioteca-backend/internal/books"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

type createBookRequest struct {
	Title         string           `json:"title" validate:"required,max=300"`
	Category      *string          `json:"category,omitempty"`
	Medium        string           `json:"medium" validate:"required"`
	Status        string           `json:"status,omitempty"`
	Stock         int              `json:"stock" validate:"min=0"`
	MinimumStock  *int             `json:"minimum_stock,omitempty"`
	PhysicalPrice *decimal.Decimal `json:"physical_price,omitempty"`
	DigitalPrice  *decimal.Decimal `json:"digital_price,omitempty"`
}

func CreateBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateBook(r.Context(), books.CreateBookInput{
			Title:         req.Title,
			Category:      req.Category,
			Medium:        enums.BookMedium(req.Medium),
			Status:        enums.BookStatus(req.Status),
			Stock:         req.Stock,
			MinimumStock:  req.MinimumStock,
			PhysicalPrice: req.PhysicalPrice,
			DigitalPrice:  req.DigitalPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func GetBook(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "bookId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetBook(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListBooks(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListBooks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
