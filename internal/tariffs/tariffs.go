package tariffs

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

// Table holds the per-user-type lending and purchasing tariffs. It is
// immutable configuration data injected into the policy services, never
// process-wide mutable state.
type Table struct {
	MaxActiveLoans   map[enums.UserType]int
	LoanDurationDays map[enums.UserType]int

	// ExtensionDays is added to the due date on the single allowed
	// extension (faculty only).
	ExtensionDays int

	// DailyLateFine accrues per day late; LostFine is the flat charge for
	// a lost copy. Fines more than DoubleAfterDays late are doubled,
	// including the lost flat (the original system evaluated lateness
	// against the already-computed fine, lost case included).
	DailyLateFine   decimal.Decimal
	LostFine        decimal.Decimal
	DoubleAfterDays int

	// LoanFineLimit blocks new loans, PurchaseFineLimit blocks purchases.
	// Both are strict greater-than thresholds.
	LoanFineLimit     decimal.Decimal
	PurchaseFineLimit decimal.Decimal

	// Purchase discount multipliers. The user-type branch applies first
	// (faculty/academic, else student/digital), then the volume tier.
	FacultyAcademicDiscount decimal.Decimal
	StudentDigitalDiscount  decimal.Decimal
	VolumeOverFiveDiscount  decimal.Decimal
	VolumeOverThreeDiscount decimal.Decimal

	// AcademicCategory is the category string the faculty discount
	// matches, case-insensitively.
	AcademicCategory string

	// RestockBatch is added to stock when a purchase drives it below the
	// book's minimum.
	RestockBatch int
}

// Default returns the canonical tariff table.
func Default() Table {
	return Table{
		MaxActiveLoans: map[enums.UserType]int{
			enums.UserTypeStudent: 3,
			enums.UserTypeFaculty: 5,
			enums.UserTypeVisitor: 1,
		},
		LoanDurationDays: map[enums.UserType]int{
			enums.UserTypeStudent: 14,
			enums.UserTypeFaculty: 30,
			enums.UserTypeVisitor: 7,
		},
		ExtensionDays:           15,
		DailyLateFine:           decimal.NewFromInt(2000),
		LostFine:                decimal.NewFromInt(5000),
		DoubleAfterDays:         30,
		LoanFineLimit:           decimal.NewFromInt(10000),
		PurchaseFineLimit:       decimal.NewFromInt(20000),
		FacultyAcademicDiscount: decimal.RequireFromString("0.80"),
		StudentDigitalDiscount:  decimal.RequireFromString("0.85"),
		VolumeOverFiveDiscount:  decimal.RequireFromString("0.85"),
		VolumeOverThreeDiscount: decimal.RequireFromString("0.90"),
		AcademicCategory:        "academic",
		RestockBatch:            5,
	}
}

// Quota returns the active-loan limit for the user type. Unknown types
// resolve to zero, which rejects every loan request.
func (t Table) Quota(userType enums.UserType) int {
	return t.MaxActiveLoans[userType.Normalize()]
}

// DurationDays returns the loan duration for the user type, zero for
// unknown types.
func (t Table) DurationDays(userType enums.UserType) int {
	return t.LoanDurationDays[userType.Normalize()]
}

// DueDate computes the due date for a loan starting now.
func (t Table) DueDate(userType enums.UserType, now time.Time) time.Time {
	return now.AddDate(0, 0, t.DurationDays(userType))
}

// DaysLate is the floor of the whole days between the due date and the
// return timestamp; returning on or before the due date yields zero.
func DaysLate(now, due time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// Fine computes the charge for a return. Lost copies pay the flat lost
// fine; otherwise the daily rate accrues per day late. Either amount is
// doubled when the return is more than DoubleAfterDays late.
func (t Table) Fine(now, due time.Time, lost bool) (decimal.Decimal, int) {
	daysLate := DaysLate(now, due)

	var fine decimal.Decimal
	if lost {
		fine = t.LostFine
	} else if daysLate > 0 {
		fine = t.DailyLateFine.Mul(decimal.NewFromInt(int64(daysLate)))
	} else {
		fine = decimal.Zero
	}

	if daysLate > t.DoubleAfterDays {
		fine = fine.Mul(decimal.NewFromInt(2))
	}
	return fine, daysLate
}

// FinalPrice applies the purchase discount chain to the base price:
// first the user-type branch (faculty buying an academic-category book,
// else student buying a digital book), then the volume tier. Multipliers
// stack multiplicatively in that exact order.
func (t Table) FinalPrice(base decimal.Decimal, quantity int, userType enums.UserType, medium enums.BookMedium, category *string) decimal.Decimal {
	price := base

	switch userType.Normalize() {
	case enums.UserTypeFaculty:
		if category != nil && strings.EqualFold(*category, t.AcademicCategory) {
			price = price.Mul(t.FacultyAcademicDiscount)
		}
	case enums.UserTypeStudent:
		if medium == enums.BookMediumDigital {
			price = price.Mul(t.StudentDigitalDiscount)
		}
	}

	switch {
	case quantity > 5:
		price = price.Mul(t.VolumeOverFiveDiscount)
	case quantity > 3:
		price = price.Mul(t.VolumeOverThreeDiscount)
	}

	return price.Round(2)
}
