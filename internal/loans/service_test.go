package loans

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amolina-dev/biblioteca-backend/internal/tariffs"
	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
	"github.com/amolina-dev/biblioteca-backend/pkg/outbox"
)

type testEnv struct {
	svc  *service
	conn *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Loan{},
		&models.Reservation{},
		&models.OutboxEvent{},
	))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(db.NewWithConn(conn), NewRepository(conn), outbox.NewRepository(conn), tariffs.Default(), nil, logg)
	require.NoError(t, err)
	return &testEnv{svc: svc.(*service), conn: conn}
}

func (e *testEnv) createUser(t *testing.T, userType enums.UserType, fines int64) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Name: "patron", Type: userType, Fines: decimal.NewFromInt(fines)}
	require.NoError(t, e.conn.Create(user).Error)
	return user
}

func (e *testEnv) createBook(t *testing.T, medium enums.BookMedium, stock int) *models.Book {
	t.Helper()
	book := &models.Book{ID: uuid.New(), Title: "title", Medium: medium, Status: enums.BookStatusAvailable, Stock: stock, MinimumStock: 1}
	require.NoError(t, e.conn.Create(book).Error)
	return book
}

func (e *testEnv) bookStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var book models.Book
	require.NoError(t, e.conn.First(&book, "id = ?", id).Error)
	return book.Stock
}

func TestRequestLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("grants and decrements physical stock", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 2)

		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, enums.LoanStatusActive, dto.Status)
		assert.Equal(t, dto.StartDate.AddDate(0, 0, 14).Unix(), dto.EndDate.Unix())
		assert.Equal(t, 1, env.bookStock(t, book.ID))
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		_, err := env.svc.RequestLoan(ctx, uuid.New(), book.ID)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("unknown book", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		_, err := env.svc.RequestLoan(ctx, user.ID, uuid.New())
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("fourth student loan rejects on quota", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		for i := 0; i < 3; i++ {
			book := env.createBook(t, enums.BookMediumPhysical, 1)
			_, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
			require.NoError(t, err)
		}

		book := env.createBook(t, enums.BookMediumPhysical, 1)
		_, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		requireRejection(t, err, ReasonQuotaExceeded)
	})

	t.Run("rejection rolls back every write", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeVisitor, 0)
		first := env.createBook(t, enums.BookMediumPhysical, 1)
		_, err := env.svc.RequestLoan(ctx, user.ID, first.ID)
		require.NoError(t, err)

		second := env.createBook(t, enums.BookMediumPhysical, 5)
		_, err = env.svc.RequestLoan(ctx, user.ID, second.ID)
		requireRejection(t, err, ReasonQuotaExceeded)
		assert.Equal(t, 5, env.bookStock(t, second.ID))

		var loanCount int64
		require.NoError(t, env.conn.Model(&models.Loan{}).Count(&loanCount).Error)
		assert.EqualValues(t, 1, loanCount)
	})

	t.Run("reservation queue is honored first in first out", func(t *testing.T) {
		env := newTestEnv(t)
		holder := env.createUser(t, enums.UserTypeStudent, 0)
		bystander := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)

		reservation := &models.Reservation{ID: uuid.New(), UserID: holder.ID, BookID: book.ID, Status: enums.ReservationStatusActive}
		require.NoError(t, env.conn.Create(reservation).Error)

		_, err := env.svc.RequestLoan(ctx, bystander.ID, book.ID)
		requireRejection(t, err, ReasonReservedByOther)

		dto, err := env.svc.RequestLoan(ctx, holder.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, holder.ID, dto.UserID)

		var stored models.Reservation
		require.NoError(t, env.conn.First(&stored, "id = ?", reservation.ID).Error)
		assert.Equal(t, enums.ReservationStatusCompleted, stored.Status)
	})

	t.Run("returned book cannot be borrowed again", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 3)

		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)
		_, err = env.svc.ReturnLoan(ctx, dto.ID, false)
		require.NoError(t, err)

		_, err = env.svc.RequestLoan(ctx, user.ID, book.ID)
		requireRejection(t, err, ReasonAlreadyBorrowed)
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		env := newTestEnv(t)
		book := env.createBook(t, enums.BookMediumPhysical, 2)
		for i := 0; i < 5; i++ {
			user := env.createUser(t, enums.UserTypeStudent, 0)
			_, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
			if i < 2 {
				require.NoError(t, err)
			} else {
				requireRejection(t, err, ReasonUnavailable)
			}
		}
		assert.Equal(t, 0, env.bookStock(t, book.ID))
	})
}

func TestExtendLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("faculty extends exactly once", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeFaculty, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)

		extended, err := env.svc.ExtendLoan(ctx, dto.ID)
		require.NoError(t, err)
		assert.True(t, extended.ExtensionUsed)
		assert.Equal(t, dto.EndDate.AddDate(0, 0, 15).Unix(), extended.EndDate.Unix())

		_, err = env.svc.ExtendLoan(ctx, dto.ID)
		requireRejection(t, err, ReasonAlreadyExtended)
	})

	t.Run("student denied", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)

		_, err = env.svc.ExtendLoan(ctx, dto.ID)
		assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	})

	t.Run("unknown loan", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.ExtendLoan(ctx, uuid.New())
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}

func TestReturnLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("on time return restores stock without a fine", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)
		require.Equal(t, 0, env.bookStock(t, book.ID))

		result, err := env.svc.ReturnLoan(ctx, dto.ID, false)
		require.NoError(t, err)
		assert.True(t, result.Fine.IsZero())
		assert.Equal(t, enums.LoanStatusReturned, result.Loan.Status)
		assert.Equal(t, 1, env.bookStock(t, book.ID))
	})

	t.Run("late return charges the fine and records the event", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)

		env.svc.now = func() time.Time { return dto.EndDate.AddDate(0, 0, 10) }
		result, err := env.svc.ReturnLoan(ctx, dto.ID, false)
		require.NoError(t, err)
		assert.True(t, result.Fine.Equal(decimal.NewFromInt(20000)), "fine was %s", result.Fine)
		assert.Equal(t, 10, result.DaysLate)

		var stored models.User
		require.NoError(t, env.conn.First(&stored, "id = ?", user.ID).Error)
		assert.True(t, stored.Fines.Equal(decimal.NewFromInt(20000)))

		var events int64
		require.NoError(t, env.conn.Model(&models.OutboxEvent{}).
			Where("event_type = ?", enums.EventLoanOverdueReturned).
			Count(&events).Error)
		assert.EqualValues(t, 1, events)
	})

	t.Run("lost copy charges the flat fine and keeps stock", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)

		result, err := env.svc.ReturnLoan(ctx, dto.ID, true)
		require.NoError(t, err)
		assert.True(t, result.Fine.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, 0, env.bookStock(t, book.ID))
	})

	t.Run("second return rejects", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, enums.UserTypeStudent, 0)
		book := env.createBook(t, enums.BookMediumPhysical, 1)
		dto, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)

		_, err = env.svc.ReturnLoan(ctx, dto.ID, false)
		require.NoError(t, err)
		_, err = env.svc.ReturnLoan(ctx, dto.ID, false)
		requireRejection(t, err, ReasonAlreadyClosed)
	})
}

func TestListLoans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, enums.UserTypeFaculty, 0)
	for i := 0; i < 2; i++ {
		book := env.createBook(t, enums.BookMediumDigital, 1)
		_, err := env.svc.RequestLoan(ctx, user.ID, book.ID)
		require.NoError(t, err)
	}

	rows, err := env.svc.ListLoans(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
