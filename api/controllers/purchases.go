package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/api/responses"
	"github.com/amolina-dev/biblioteca-backend/api/validators"
	"github.com/amolina-dev/biblioteca-backend/internal/purchases"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

type requestPurchaseRequest struct {
	UserID    uuid.UUID        `json:"user_id" validate:"required"`
	BookID    uuid.UUID        `json:"book_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"min=0"`
	BasePrice *decimal.Decimal `json:"base_price,omitempty"`
}

func RequestPurchase(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requestPurchaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		dto, err := svc.RequestPurchase(r.Context(), purchases.RequestPurchaseInput{
			UserID:    req.UserID,
			BookID:    req.BookID,
			Quantity:  req.Quantity,
			BasePrice: req.BasePrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListPurchases(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListPurchases(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
