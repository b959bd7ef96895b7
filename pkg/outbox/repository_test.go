package outbox

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	"github.com/google/uuid"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestInsertRequiresTransaction(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	if err := repo.Insert(nil, models.OutboxEvent{}); err == nil {
		t.Fatal("expected error when tx is nil")
	}
}

func TestInsertFetchMarkRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	event, err := NewRestockRequested(RestockRequestedPayload{
		BookID:        uuid.New(),
		Title:         "Compilers",
		PreviousStock: 0,
		RestockedTo:   5,
		MinimumStock:  1,
	})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}

	tx := db.Begin()
	if err := repo.Insert(tx, event); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}

	rows, err := repo.FetchUnpublished(10, 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 unpublished event, got %d", len(rows))
	}
	if rows[0].EventType != enums.EventBookRestockRequested {
		t.Fatalf("unexpected event type %s", rows[0].EventType)
	}

	if err := repo.MarkFailed(rows[0].ID, errors.New("broker down")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// one failed attempt puts the event at the attempt ceiling
	exhausted, err := repo.FetchUnpublished(10, 1)
	if err != nil {
		t.Fatalf("fetch with attempt ceiling: %v", err)
	}
	if len(exhausted) != 0 {
		t.Fatalf("expected exhausted event to be excluded, got %d rows", len(exhausted))
	}

	if err := repo.MarkPublished(rows[0].ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}

	rows, err = repo.FetchUnpublished(10, 3)
	if err != nil {
		t.Fatalf("fetch after publish: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no unpublished events, got %d", len(rows))
	}
}
