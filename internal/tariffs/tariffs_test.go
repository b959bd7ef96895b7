package tariffs

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
)

func TestQuotaAndDurationPerUserType(t *testing.T) {
	table := Default()

	tests := []struct {
		userType enums.UserType
		quota    int
		duration int
	}{
		{enums.UserTypeStudent, 3, 14},
		{enums.UserTypeFaculty, 5, 30},
		{enums.UserTypeVisitor, 1, 7},
		{enums.UserType("STUDENT"), 3, 14},
		{enums.UserType("  Faculty "), 5, 30},
		{enums.UserType("alien"), 0, 0},
	}

	for _, tt := range tests {
		if got := table.Quota(tt.userType); got != tt.quota {
			t.Fatalf("quota for %q: expected %d, got %d", tt.userType, tt.quota, got)
		}
		if got := table.DurationDays(tt.userType); got != tt.duration {
			t.Fatalf("duration for %q: expected %d, got %d", tt.userType, tt.duration, got)
		}
	}
}

func TestDueDateAddsDuration(t *testing.T) {
	table := Default()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	due := table.DueDate(enums.UserTypeStudent, now)
	if want := now.AddDate(0, 0, 14); !due.Equal(want) {
		t.Fatalf("expected due %v, got %v", want, due)
	}
}

func TestDaysLate(t *testing.T) {
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := DaysLate(due, due); got != 0 {
		t.Fatalf("same-day return should be 0 days late, got %d", got)
	}
	if got := DaysLate(due.Add(23*time.Hour), due); got != 0 {
		t.Fatalf("less than a day late should floor to 0, got %d", got)
	}
	if got := DaysLate(due.AddDate(0, 0, 10), due); got != 10 {
		t.Fatalf("expected 10 days late, got %d", got)
	}
	if got := DaysLate(due.AddDate(0, 0, -3), due); got != 0 {
		t.Fatalf("early return should be 0 days late, got %d", got)
	}
}

func TestFine(t *testing.T) {
	table := Default()
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("onTimeIsZero", func(t *testing.T) {
		fine, daysLate := table.Fine(due, due, false)
		if !fine.IsZero() || daysLate != 0 {
			t.Fatalf("expected zero fine, got %s (%d days)", fine, daysLate)
		}
	})

	t.Run("tenDaysLate", func(t *testing.T) {
		fine, _ := table.Fine(due.AddDate(0, 0, 10), due, false)
		if want := decimal.NewFromInt(20000); !fine.Equal(want) {
			t.Fatalf("expected %s, got %s", want, fine)
		}
	})

	t.Run("thirtyDaysLateNotDoubled", func(t *testing.T) {
		fine, _ := table.Fine(due.AddDate(0, 0, 30), due, false)
		if want := decimal.NewFromInt(60000); !fine.Equal(want) {
			t.Fatalf("expected %s (30 days is not over the threshold), got %s", want, fine)
		}
	})

	t.Run("thirtyFiveDaysLateDoubled", func(t *testing.T) {
		fine, _ := table.Fine(due.AddDate(0, 0, 35), due, false)
		if want := decimal.NewFromInt(140000); !fine.Equal(want) {
			t.Fatalf("expected %s, got %s", want, fine)
		}
	})

	t.Run("lostOnTime", func(t *testing.T) {
		fine, _ := table.Fine(due, due, true)
		if want := decimal.NewFromInt(5000); !fine.Equal(want) {
			t.Fatalf("expected %s, got %s", want, fine)
		}
	})

	t.Run("lostFortyDaysLateDoubles", func(t *testing.T) {
		fine, _ := table.Fine(due.AddDate(0, 0, 40), due, true)
		if want := decimal.NewFromInt(10000); !fine.Equal(want) {
			t.Fatalf("expected %s, got %s", want, fine)
		}
	})
}

func TestFinalPrice(t *testing.T) {
	table := Default()
	base := decimal.NewFromInt(1000)
	academic := "academic"
	fiction := "fiction"

	t.Run("facultyAcademic", func(t *testing.T) {
		got := table.FinalPrice(base, 1, enums.UserTypeFaculty, enums.BookMediumPhysical, &academic)
		if want := decimal.NewFromInt(800); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})

	t.Run("facultyAcademicCaseInsensitive", func(t *testing.T) {
		upper := "Academic"
		got := table.FinalPrice(base, 1, enums.UserTypeFaculty, enums.BookMediumPhysical, &upper)
		if want := decimal.NewFromInt(800); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})

	t.Run("facultyNonAcademicNoBranchDiscount", func(t *testing.T) {
		got := table.FinalPrice(base, 1, enums.UserTypeFaculty, enums.BookMediumDigital, &fiction)
		if !got.Equal(base) {
			t.Fatalf("expected %s, got %s", base, got)
		}
	})

	t.Run("studentDigital", func(t *testing.T) {
		got := table.FinalPrice(base, 1, enums.UserTypeStudent, enums.BookMediumDigital, nil)
		if want := decimal.NewFromInt(850); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})

	t.Run("studentPhysicalNoBranchDiscount", func(t *testing.T) {
		got := table.FinalPrice(base, 1, enums.UserTypeStudent, enums.BookMediumPhysical, &academic)
		if !got.Equal(base) {
			t.Fatalf("student buying physical gets no branch discount, got %s", got)
		}
	})

	t.Run("volumeOverThree", func(t *testing.T) {
		got := table.FinalPrice(base, 4, enums.UserTypeVisitor, enums.BookMediumPhysical, nil)
		if want := decimal.NewFromInt(900); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})

	t.Run("volumeOverFive", func(t *testing.T) {
		got := table.FinalPrice(base, 6, enums.UserTypeVisitor, enums.BookMediumPhysical, nil)
		if want := decimal.NewFromInt(850); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})

	t.Run("facultyAcademicVolumeSixStacks", func(t *testing.T) {
		got := table.FinalPrice(base, 6, enums.UserTypeFaculty, enums.BookMediumPhysical, &academic)
		if want := decimal.NewFromInt(680); !got.Equal(want) {
			t.Fatalf("expected %s (base*0.80*0.85), got %s", want, got)
		}
	})

	t.Run("roundsToCents", func(t *testing.T) {
		got := table.FinalPrice(decimal.RequireFromString("999.99"), 4, enums.UserTypeVisitor, enums.BookMediumPhysical, nil)
		if want := decimal.RequireFromString("899.99"); !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	})
}
