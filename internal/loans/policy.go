package loans

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
)

// Rejection reasons surfaced to callers on policy denials.
const (
	ReasonUnavailable     = "unavailable"
	ReasonFinesPending    = "fines_pending"
	ReasonReservedByOther = "reserved_by_other"
	ReasonNoStock         = "no_stock"
	ReasonQuotaExceeded   = "quota_exceeded"
	ReasonAlreadyBorrowed = "already_borrowed_before"
	ReasonRoleDenied      = "role_denied"
	ReasonAlreadyExtended = "already_extended"
	ReasonAlreadyClosed   = "already_closed"
)

// Policy constants resolving rules the source system left ambiguous. Both
// are deliberate product decisions, covered by tests, and must not be
// changed casually.
const (
	// stockGatesAllMediums makes zero stock reject loan requests for
	// digital editions too, not just physical copies.
	stockGatesAllMediums = true

	// reborrowAllowed, when false, permanently blocks re-lending a book
	// to a user whose previous loan of it was already returned.
	reborrowAllowed = false
)

// loanRequest is the consistent snapshot a loan decision is made against.
// All fields are loaded inside one transaction before deciding.
type loanRequest struct {
	User              *models.User
	Book              *models.Book
	ActiveLoans       int
	OldestReservation *models.Reservation
	LastLoan          *models.Loan
	Now               time.Time
}

// loanGrant is the effect list for an approved loan request.
type loanGrant struct {
	EndDate             time.Time
	CompleteReservation bool
	DecrementStock      bool
}

// decideRequestLoan evaluates the loan preconditions in their mandated
// order; the first failing check wins and no later check runs.
func decideRequestLoan(tbl tariffs.Table, in loanRequest) (loanGrant, error) {
	if in.Book.Stock == 0 && (in.Book.Medium.IsPhysical() || stockGatesAllMediums) {
		return loanGrant{}, pkgerrors.Rejected(ReasonUnavailable, "book is not available")
	}
	if in.User.Fines.GreaterThan(tbl.LoanFineLimit) {
		return loanGrant{}, pkgerrors.Rejected(ReasonFinesPending, "outstanding fines block new loans")
	}

	completeReservation := false
	if in.OldestReservation != nil {
		if in.OldestReservation.UserID != in.User.ID {
			return loanGrant{}, pkgerrors.Rejected(ReasonReservedByOther, "book is reserved by another user")
		}
		completeReservation = true
	}

	if in.Book.Medium.IsPhysical() && in.Book.Stock <= 0 {
		return loanGrant{}, pkgerrors.Rejected(ReasonNoStock, "no copies in stock")
	}
	if in.ActiveLoans >= tbl.Quota(in.User.Type) {
		return loanGrant{}, pkgerrors.Rejected(ReasonQuotaExceeded, "active loan quota reached")
	}
	if !reborrowAllowed && in.LastLoan != nil && in.LastLoan.Status == enums.LoanStatusReturned {
		return loanGrant{}, pkgerrors.Rejected(ReasonAlreadyBorrowed, "book was already borrowed and returned")
	}

	return loanGrant{
		EndDate:             tbl.DueDate(in.User.Type, in.Now),
		CompleteReservation: completeReservation,
		DecrementStock:      in.Book.Medium.IsPhysical(),
	}, nil
}

// decideExtendLoan gates the single faculty-only extension.
func decideExtendLoan(loan *models.Loan, user *models.User) error {
	if user.Type.Normalize() != enums.UserTypeFaculty {
		return pkgerrors.Forbidden(ReasonRoleDenied, "only faculty users may extend loans")
	}
	if loan.ExtensionUsed {
		return pkgerrors.Rejected(ReasonAlreadyExtended, "loan was already extended")
	}
	return nil
}

// returnOutcome is the effect list for a processed return.
type returnOutcome struct {
	Fine         decimal.Decimal
	DaysLate     int
	RestoreStock bool
}

// decideReturnLoan computes the fine and stock effect of closing a loan.
// Lost copies are charged the flat lost fine and never restored to stock.
func decideReturnLoan(tbl tariffs.Table, loan *models.Loan, book *models.Book, now time.Time, lost bool) (returnOutcome, error) {
	if loan.Status != enums.LoanStatusActive {
		return returnOutcome{}, pkgerrors.Rejected(ReasonAlreadyClosed, "loan is already closed")
	}
	fine, daysLate := tbl.Fine(now, loan.EndDate, lost)
	return returnOutcome{
		Fine:         fine,
		DaysLate:     daysLate,
		RestoreStock: book.Medium.IsPhysical() && !lost,
	}, nil
}
