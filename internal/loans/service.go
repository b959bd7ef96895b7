package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
	"github.com/amolina-dev/biblioteca-backend/pkg/metrics"
	"github.com/amolina-dev/biblioteca-backend/pkg/outbox"
)

// Metric operation labels.
const (
	opRequestLoan = "request_loan"
	opExtendLoan  = "extend_loan"
	opReturnLoan  = "return_loan"
)

// Service exposes the lending policy operations. Every mutating call runs
// as one transaction: all entity writes commit together or not at all.
type Service interface {
	RequestLoan(ctx context.Context, userID, bookID uuid.UUID) (*LoanDTO, error)
	ExtendLoan(ctx context.Context, loanID uuid.UUID) (*LoanDTO, error)
	ReturnLoan(ctx context.Context, loanID uuid.UUID, lost bool) (*ReturnResultDTO, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanDTO, error)
	ListLoans(ctx context.Context) ([]LoanDTO, error)
}

type service struct {
	client  *db.Client
	repo    *Repository
	outbox  *outbox.Repository
	tariffs tariffs.Table
	metrics *metrics.PolicyMetrics
	logger  *logger.Logger

	// now is swapped out by tests to pin policy timestamps.
	now func() time.Time
}

// NewService constructs the lending service.
func NewService(client *db.Client, repo *Repository, outboxRepo *outbox.Repository, tbl tariffs.Table, met *metrics.PolicyMetrics, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("loan repository required")
	}
	if outboxRepo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:  client,
		repo:    repo,
		outbox:  outboxRepo,
		tariffs: tbl,
		metrics: met,
		logger:  logg,
		now:     time.Now,
	}, nil
}

func (s *service) RequestLoan(ctx context.Context, userID, bookID uuid.UUID) (*LoanDTO, error) {
	start := s.now()
	var dto *LoanDTO

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		user, err := r.GetUser(ctx, userID)
		if err != nil {
			return entityLoadError(err, "user")
		}
		book, err := r.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return entityLoadError(err, "book")
		}
		activeLoans, err := r.CountActiveLoans(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count active loans")
		}
		reservation, err := r.FindOldestActiveReservation(ctx, bookID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation queue")
		}
		lastLoan, err := r.FindLastLoan(ctx, userID, bookID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan history")
		}

		now := s.now()
		grant, err := decideRequestLoan(s.tariffs, loanRequest{
			User:              user,
			Book:              book,
			ActiveLoans:       activeLoans,
			OldestReservation: reservation,
			LastLoan:          lastLoan,
			Now:               now,
		})
		if err != nil {
			return err
		}

		if grant.CompleteReservation {
			reservation.Status = enums.ReservationStatusCompleted
			if err := r.SaveReservation(ctx, reservation); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: complete reservation")
			}
		}

		loan := &models.Loan{
			ID:        uuid.New(),
			UserID:    userID,
			BookID:    bookID,
			StartDate: now,
			EndDate:   grant.EndDate,
			Status:    enums.LoanStatusActive,
		}
		if err := r.CreateLoan(ctx, loan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert loan")
		}

		if grant.DecrementStock {
			book.Stock--
			if err := r.SaveBook(ctx, book); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
		}

		dto = NewLoanDTO(loan)
		return nil
	})

	s.finish(opRequestLoan, start, err)
	if err != nil {
		return nil, err
	}

	ctx = s.logger.WithLoanID(s.logger.WithUserID(s.logger.WithBookID(ctx, bookID.String()), userID.String()), dto.ID.String())
	s.logger.Info(ctx, "loan granted")
	return dto, nil
}

func (s *service) ExtendLoan(ctx context.Context, loanID uuid.UUID) (*LoanDTO, error) {
	start := s.now()
	var dto *LoanDTO

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		loan, err := r.GetLoan(ctx, loanID)
		if err != nil {
			return entityLoadError(err, "loan")
		}
		user, err := r.GetUser(ctx, loan.UserID)
		if err != nil {
			return entityLoadError(err, "user")
		}
		if err := decideExtendLoan(loan, user); err != nil {
			return err
		}

		loan.EndDate = loan.EndDate.AddDate(0, 0, s.tariffs.ExtensionDays)
		loan.ExtensionUsed = true
		if err := r.SaveLoan(ctx, loan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save loan")
		}

		dto = NewLoanDTO(loan)
		return nil
	})

	s.finish(opExtendLoan, start, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.logger.WithLoanID(ctx, dto.ID.String()), "loan extended")
	return dto, nil
}

func (s *service) ReturnLoan(ctx context.Context, loanID uuid.UUID, lost bool) (*ReturnResultDTO, error) {
	start := s.now()
	var result *ReturnResultDTO

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		loan, err := r.GetLoan(ctx, loanID)
		if err != nil {
			return entityLoadError(err, "loan")
		}
		user, err := r.GetUser(ctx, loan.UserID)
		if err != nil {
			return entityLoadError(err, "user")
		}
		book, err := r.GetBookForUpdate(ctx, loan.BookID)
		if err != nil {
			return entityLoadError(err, "book")
		}

		now := s.now()
		outcome, err := decideReturnLoan(s.tariffs, loan, book, now, lost)
		if err != nil {
			return err
		}

		if outcome.Fine.IsPositive() {
			user.Fines = user.Fines.Add(outcome.Fine)
			if err := r.SaveUser(ctx, user); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: accrue fine")
			}
		}

		loan.Status = enums.LoanStatusReturned
		loan.EndDate = now
		if err := r.SaveLoan(ctx, loan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: close loan")
		}

		if outcome.RestoreStock {
			book.Stock++
			if err := r.SaveBook(ctx, book); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore stock")
			}
		}

		if outcome.Fine.IsPositive() {
			event, err := outbox.NewOverdueReturned(outbox.OverdueReturnedPayload{
				LoanID:   loan.ID,
				UserID:   loan.UserID,
				BookID:   loan.BookID,
				DaysLate: outcome.DaysLate,
				Lost:     lost,
				Fine:     outcome.Fine,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "outbox: encode overdue event")
			}
			if err := s.outbox.Insert(tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: insert overdue event")
			}
		}

		result = &ReturnResultDTO{
			Loan:     *NewLoanDTO(loan),
			Fine:     outcome.Fine,
			DaysLate: outcome.DaysLate,
			Lost:     lost,
		}
		return nil
	})

	s.finish(opReturnLoan, start, err)
	if err != nil {
		return nil, err
	}

	s.metrics.AddFine(result.Fine.InexactFloat64())
	ctx = s.logger.WithLoanID(ctx, result.Loan.ID.String())
	if result.Fine.IsPositive() {
		s.logger.Warn(s.logger.WithField(ctx, "fine", result.Fine.String()), "loan returned late")
	} else {
		s.logger.Info(ctx, "loan returned")
	}
	return result, nil
}

func (s *service) GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanDTO, error) {
	loan, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return nil, entityLoadError(err, "loan")
	}
	return NewLoanDTO(loan), nil
}

func (s *service) ListLoans(ctx context.Context) ([]LoanDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list loans")
	}
	return NewLoanDTOs(rows), nil
}

// finish records the decision metrics for one policy call. Rejections are
// labeled with their reason, infrastructure failures with "error".
func (s *service) finish(operation string, start time.Time, err error) {
	s.metrics.ObserveDuration(operation, s.now().Sub(start))

	outcome := "granted"
	if err != nil {
		outcome = "error"
		if domainErr := pkgerrors.As(err); domainErr != nil {
			switch domainErr.Code() {
			case pkgerrors.CodeRejected, pkgerrors.CodeForbidden:
				outcome = domainErr.Reason()
			case pkgerrors.CodeNotFound:
				outcome = "not_found"
			}
		}
	}
	s.metrics.IncDecision(operation, outcome)
}

// entityLoadError maps a record miss to the domain not-found error and
// anything else to a dependency failure.
func entityLoadError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(entity)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+entity)
}
