package reservations

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amolina-dev/biblioteca-backend/pkg/db"
	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

type testEnv struct {
	svc  Service
	conn *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Book{}, &models.Reservation{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(db.NewWithConn(conn), NewRepository(conn), nil, logg)
	require.NoError(t, err)
	return &testEnv{svc: svc, conn: conn}
}

func (e *testEnv) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Name: "patron", Type: enums.UserTypeStudent, Fines: decimal.Zero}
	require.NoError(t, e.conn.Create(user).Error)
	return user
}

func (e *testEnv) createBook(t *testing.T) *models.Book {
	t.Helper()
	book := &models.Book{ID: uuid.New(), Title: "title", Medium: enums.BookMediumPhysical, Status: enums.BookStatusAvailable, Stock: 0, MinimumStock: 1}
	require.NoError(t, e.conn.Create(book).Error)
	return book
}

func TestRequestReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active reservation", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t)
		book := env.createBook(t)

		dto, err := env.svc.RequestReservation(ctx, user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, enums.ReservationStatusActive, dto.Status)
		assert.Equal(t, user.ID, dto.UserID)
		assert.Equal(t, book.ID, dto.BookID)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)
		book := env.createBook(t)
		_, err := env.svc.RequestReservation(ctx, uuid.New(), book.ID)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("unknown book", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t)
		_, err := env.svc.RequestReservation(ctx, user.ID, uuid.New())
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})

	t.Run("duplicate active reservation rejects", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t)
		book := env.createBook(t)

		_, err := env.svc.RequestReservation(ctx, user.ID, book.ID)
		require.NoError(t, err)

		_, err = env.svc.RequestReservation(ctx, user.ID, book.ID)
		domainErr := pkgerrors.As(err)
		require.NotNil(t, domainErr)
		assert.Equal(t, ReasonDuplicate, domainErr.Reason())
	})

	t.Run("completed reservation does not block a new one", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t)
		book := env.createBook(t)

		completed := &models.Reservation{ID: uuid.New(), UserID: user.ID, BookID: book.ID, Status: enums.ReservationStatusCompleted}
		require.NoError(t, env.conn.Create(completed).Error)

		_, err := env.svc.RequestReservation(ctx, user.ID, book.ID)
		require.NoError(t, err)
	})

	t.Run("two users may queue on the same book", func(t *testing.T) {
		env := newTestEnv(t)
		book := env.createBook(t)
		first := env.createUser(t)
		second := env.createUser(t)

		_, err := env.svc.RequestReservation(ctx, first.ID, book.ID)
		require.NoError(t, err)
		_, err = env.svc.RequestReservation(ctx, second.ID, book.ID)
		require.NoError(t, err)
	})
}

func TestListReservations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	book := env.createBook(t)
	for i := 0; i < 2; i++ {
		user := env.createUser(t)
		_, err := env.svc.RequestReservation(ctx, user.ID, book.ID)
		require.NoError(t, err)
	}

	rows, err := env.svc.ListReservations(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
