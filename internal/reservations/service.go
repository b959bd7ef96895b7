package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
	"github.com/amolina-dev/biblioteca-backend/pkg/metrics"
)

// ReasonDuplicate rejects a second active reservation of the same book by
// the same user.
const ReasonDuplicate = "duplicate_reservation"

const opRequestReservation = "request_reservation"

// Service exposes the reservation policy operations.
type Service interface {
	RequestReservation(ctx context.Context, userID, bookID uuid.UUID) (*ReservationDTO, error)
	ListReservations(ctx context.Context) ([]ReservationDTO, error)
}

type service struct {
	client  *db.Client
	repo    *Repository
	metrics *metrics.PolicyMetrics
	logger  *logger.Logger

	now func() time.Time
}

// NewService constructs the reservation service.
func NewService(client *db.Client, repo *Repository, met *metrics.PolicyMetrics, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:  client,
		repo:    repo,
		metrics: met,
		logger:  logg,
		now:     time.Now,
	}, nil
}

func (s *service) RequestReservation(ctx context.Context, userID, bookID uuid.UUID) (*ReservationDTO, error) {
	start := s.now()
	var dto *ReservationDTO

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		if _, err := r.GetUser(ctx, userID); err != nil {
			return entityLoadError(err, "user")
		}
		if _, err := r.GetBook(ctx, bookID); err != nil {
			return entityLoadError(err, "book")
		}

		existing, err := r.FindActiveByUserAndBook(ctx, userID, bookID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation")
		}
		if existing != nil {
			return pkgerrors.Rejected(ReasonDuplicate, "an active reservation for this book already exists")
		}

		reservation := &models.Reservation{
			ID:     uuid.New(),
			UserID: userID,
			BookID: bookID,
			Status: enums.ReservationStatusActive,
		}
		if err := r.Create(ctx, reservation); err != nil {
			if db.IsUniqueViolation(err, "reservations_active_user_book") {
				return pkgerrors.Rejected(ReasonDuplicate, "an active reservation for this book already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
		}

		dto = NewReservationDTO(reservation)
		return nil
	})

	s.metrics.ObserveDuration(opRequestReservation, s.now().Sub(start))
	outcome := "granted"
	if err != nil {
		outcome = "error"
		if domainErr := pkgerrors.As(err); domainErr != nil && domainErr.Reason() != "" {
			outcome = domainErr.Reason()
		} else if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			outcome = "not_found"
		}
	}
	s.metrics.IncDecision(opRequestReservation, outcome)
	if err != nil {
		return nil, err
	}

	ctx = s.logger.WithBookID(s.logger.WithUserID(ctx, userID.String()), bookID.String())
	s.logger.Info(ctx, "reservation created")
	return dto, nil
}

func (s *service) ListReservations(ctx context.Context) ([]ReservationDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	return NewReservationDTOs(rows), nil
}

func entityLoadError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(entity)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+entity)
}
