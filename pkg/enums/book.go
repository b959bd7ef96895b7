package enums

import (
	"fmt"
	"strings"
)

// BookMedium distinguishes physical copies (stock-tracked) from digital
// editions (always available).
type BookMedium string

const (
	BookMediumPhysical BookMedium = "physical"
	BookMediumDigital  BookMedium = "digital"
)

var validBookMediums = []BookMedium{
	BookMediumPhysical,
	BookMediumDigital,
}

// String implements fmt.Stringer.
func (m BookMedium) String() string {
	return string(m)
}

// IsValid reports whether the value is a known BookMedium.
func (m BookMedium) IsValid() bool {
	for _, candidate := range validBookMediums {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsPhysical reports whether stock accounting applies to the medium.
func (m BookMedium) IsPhysical() bool {
	return m == BookMediumPhysical
}

// ParseBookMedium converts raw input into a BookMedium.
func ParseBookMedium(value string) (BookMedium, error) {
	normalized := BookMedium(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range validBookMediums {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book medium %q", value)
}

// BookStatus is the advisory display state of a book. It is never
// consulted for availability decisions; stock and medium are.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusLoaned      BookStatus = "loaned"
	BookStatusReserved    BookStatus = "reserved"
	BookStatusMaintenance BookStatus = "maintenance"
)

var validBookStatuses = []BookStatus{
	BookStatusAvailable,
	BookStatusLoaned,
	BookStatusReserved,
	BookStatusMaintenance,
}

// String implements fmt.Stringer.
func (s BookStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BookStatus.
func (s BookStatus) IsValid() bool {
	for _, candidate := range validBookStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBookStatus converts raw input into a BookStatus.
func ParseBookStatus(value string) (BookStatus, error) {
	normalized := BookStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range validBookStatuses {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book status %q", value)
}
