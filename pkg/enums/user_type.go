package enums

import (
	"fmt"
	"strings"
)

// UserType represents the patron categories the tariff tables know about.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeFaculty UserType = "faculty"
	UserTypeVisitor UserType = "visitor"
)

var validUserTypes = []UserType{
	UserTypeStudent,
	UserTypeFaculty,
	UserTypeVisitor,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// Normalize lower-cases the raw value so tariff lookups stay
// case-insensitive. Unknown types survive normalization; the tariff
// tables resolve them to zero quota and zero duration.
func (u UserType) Normalize() UserType {
	return UserType(strings.ToLower(strings.TrimSpace(string(u))))
}

// ParseUserType converts raw input into a UserType.
func ParseUserType(value string) (UserType, error) {
	normalized := UserType(value).Normalize()
	for _, candidate := range validUserTypes {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
