package enums

// LoanStatus tracks the lifecycle of a loan. The transition to returned
// is terminal.
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// String implements fmt.Stringer.
func (s LoanStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LoanStatus.
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusReturned
}

// ReservationStatus tracks a reservation's lifecycle. A reservation
// completes when its holder's loan request is fulfilled.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// String implements fmt.Stringer.
func (s ReservationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReservationStatus.
func (s ReservationStatus) IsValid() bool {
	return s == ReservationStatusActive || s == ReservationStatusCompleted
}
