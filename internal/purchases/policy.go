package purchases

import (
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
)

// Rejection reasons surfaced to callers on policy denials.
const (
	ReasonFinesPending  = "fines_pending"
	ReasonHasActiveLoan = "has_active_loan"
	ReasonNoPrice       = "no_price"
	ReasonNoStock       = "no_stock"
)

// purchaseRequest is the consistent snapshot a purchase decision is made
// against. BasePrice nil falls back to the book's list price for its
// medium.
type purchaseRequest struct {
	User       *models.User
	Book       *models.Book
	Quantity   int
	BasePrice  *decimal.Decimal
	ActiveLoan *models.Loan
}

// purchaseGrant is the effect list for an approved purchase.
type purchaseGrant struct {
	FinalPrice     decimal.Decimal
	DecrementStock bool
	Restock        bool
	RestockedTo    int
}

// decideRequestPurchase evaluates the purchase preconditions in their
// mandated order; the first failing check wins.
func decideRequestPurchase(tbl tariffs.Table, in purchaseRequest) (purchaseGrant, error) {
	if in.User.Fines.GreaterThan(tbl.PurchaseFineLimit) {
		return purchaseGrant{}, pkgerrors.Rejected(ReasonFinesPending, "outstanding fines block purchases")
	}
	if in.ActiveLoan != nil {
		return purchaseGrant{}, pkgerrors.Rejected(ReasonHasActiveLoan, "book is currently on loan to this user")
	}

	base := in.BasePrice
	if base == nil {
		base = in.Book.PriceForMedium()
	}
	if base == nil {
		return purchaseGrant{}, pkgerrors.Rejected(ReasonNoPrice, "no price available for this book")
	}

	grant := purchaseGrant{
		FinalPrice: tbl.FinalPrice(*base, in.Quantity, in.User.Type, in.Book.Medium, in.Book.Category),
	}

	if in.Book.Medium.IsPhysical() {
		// Strict inequality: buying out the whole stock is rejected.
		if in.Book.Stock <= in.Quantity {
			return purchaseGrant{}, pkgerrors.Rejected(ReasonNoStock, "not enough copies in stock")
		}
		grant.DecrementStock = true
		remaining := in.Book.Stock - in.Quantity
		if remaining < in.Book.MinimumStock {
			grant.Restock = true
			grant.RestockedTo = remaining + tbl.RestockBatch
		}
	}
	return grant, nil
}
