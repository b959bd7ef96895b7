package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
	"github.com/amolina-dev/biblioteca-backend/pkg/metrics"
	"github.com/amolina-dev/biblioteca-backend/pkg/outbox"
)

const opRequestPurchase = "request_purchase"

// Service exposes the purchase policy operations.
type Service interface {
	RequestPurchase(ctx context.Context, input RequestPurchaseInput) (*PurchaseDTO, error)
	ListPurchases(ctx context.Context) ([]PurchaseDTO, error)
}

// RequestPurchaseInput holds the validated purchase payload. BasePrice
// nil means the book's own list price applies.
type RequestPurchaseInput struct {
	UserID    uuid.UUID
	BookID    uuid.UUID
	Quantity  int
	BasePrice *decimal.Decimal
}

type service struct {
	client  *db.Client
	repo    *Repository
	outbox  *outbox.Repository
	tariffs tariffs.Table
	metrics *metrics.PolicyMetrics
	logger  *logger.Logger

	now func() time.Time
}

// NewService constructs the purchase service.
func NewService(client *db.Client, repo *Repository, outboxRepo *outbox.Repository, tbl tariffs.Table, met *metrics.PolicyMetrics, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
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

func (s *service) RequestPurchase(ctx context.Context, input RequestPurchaseInput) (*PurchaseDTO, error) {
	start := s.now()

	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.BasePrice != nil && input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}

	var dto *PurchaseDTO
	restocked := false

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		user, err := r.GetUser(ctx, input.UserID)
		if err != nil {
			return entityLoadError(err, "user")
		}
		book, err := r.GetBookForUpdate(ctx, input.BookID)
		if err != nil {
			return entityLoadError(err, "book")
		}
		activeLoan, err := r.FindActiveLoan(ctx, input.UserID, input.BookID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active loan")
		}

		grant, err := decideRequestPurchase(s.tariffs, purchaseRequest{
			User:       user,
			Book:       book,
			Quantity:   input.Quantity,
			BasePrice:  input.BasePrice,
			ActiveLoan: activeLoan,
		})
		if err != nil {
			return err
		}

		purchase := &models.Purchase{
			ID:         uuid.New(),
			UserID:     input.UserID,
			BookID:     input.BookID,
			Quantity:   input.Quantity,
			FinalPrice: grant.FinalPrice,
			Date:       s.now(),
		}
		if err := r.Create(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert purchase")
		}

		if grant.DecrementStock {
			previousStock := book.Stock
			book.Stock -= input.Quantity
			if grant.Restock {
				book.Stock = grant.RestockedTo
				event, err := outbox.NewRestockRequested(outbox.RestockRequestedPayload{
					BookID:        book.ID,
					Title:         book.Title,
					PreviousStock: previousStock,
					RestockedTo:   grant.RestockedTo,
					MinimumStock:  book.MinimumStock,
				})
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "outbox: encode restock event")
				}
				if err := s.outbox.Insert(tx, event); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "outbox: insert restock event")
				}
				restocked = true
			}
			if err := r.SaveBook(ctx, book); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock")
			}
		}

		dto = NewPurchaseDTO(purchase)
		return nil
	})

	s.metrics.ObserveDuration(opRequestPurchase, s.now().Sub(start))
	outcome := "granted"
	if err != nil {
		outcome = "error"
		if domainErr := pkgerrors.As(err); domainErr != nil && domainErr.Reason() != "" {
			outcome = domainErr.Reason()
		} else if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			outcome = "not_found"
		}
	}
	s.metrics.IncDecision(opRequestPurchase, outcome)
	if err != nil {
		return nil, err
	}

	if restocked {
		s.metrics.IncRestock()
	}

	ctx = s.logger.WithBookID(s.logger.WithUserID(ctx, input.UserID.String()), input.BookID.String())
	s.logger.Info(s.logger.WithField(ctx, "final_price", dto.FinalPrice.String()), "purchase completed")
	return dto, nil
}

func (s *service) ListPurchases(ctx context.Context) ([]PurchaseDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases")
	}
	return NewPurchaseDTOs(rows), nil
}

func entityLoadError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(entity)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+entity)
}
