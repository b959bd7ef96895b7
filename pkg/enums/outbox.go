package enums

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBook OutboxAggregateType = "book"
	AggregateLoan OutboxAggregateType = "loan"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBook,
	AggregateLoan,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventBookRestockRequested OutboxEventType = "book.restock_requested"
	EventLoanOverdueReturned  OutboxEventType = "loan.overdue_returned"
)

var validOutboxEventTypes = []OutboxEventType{
	EventBookRestockRequested,
	EventLoanOverdueReturned,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}
