package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/enums"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeRepo) FetchUnpublished(limit int, maxAttempts int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	for _, e := range f.events {
		if e.AttemptCount >= maxAttempts {
			continue
		}
		rows = append(rows, e)
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func event(attempts int) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventBookRestockRequested,
		AggregateType: enums.AggregateBook,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{}`),
		AttemptCount:  attempts,
	}
}

func TestNewService(t *testing.T) {
	_, err := NewService(ServiceParams{Repository: &fakeRepo{}})
	assert.Error(t, err)

	_, err = NewService(ServiceParams{Logger: testLogger()})
	assert.Error(t, err)

	svc, err := NewService(ServiceParams{Logger: testLogger(), Repository: &fakeRepo{}})
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, svc.batchSize)
	assert.Equal(t, defaultMaxAttempts, svc.maxAttempts)
}

func TestDrainOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes pending events", func(t *testing.T) {
		repo := &fakeRepo{events: []models.OutboxEvent{event(0), event(1)}}
		svc, err := NewService(ServiceParams{Logger: testLogger(), Repository: repo})
		require.NoError(t, err)

		published, err := svc.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, published)
		assert.Len(t, repo.published, 2)
		assert.Empty(t, repo.failed)
	})

	t.Run("records failures without stopping the batch", func(t *testing.T) {
		first := event(0)
		second := event(0)
		repo := &fakeRepo{events: []models.OutboxEvent{first, second}}

		calls := 0
		svc, err := NewService(ServiceParams{
			Logger:     testLogger(),
			Repository: repo,
			Publish: func(ctx context.Context, e models.OutboxEvent) error {
				calls++
				if e.ID == first.ID {
					return errors.New("sink unavailable")
				}
				return nil
			},
		})
		require.NoError(t, err)

		published, err := svc.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, published)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []uuid.UUID{first.ID}, repo.failed)
		assert.Equal(t, []uuid.UUID{second.ID}, repo.published)
	})

	t.Run("leaves events out of attempts untouched", func(t *testing.T) {
		repo := &fakeRepo{events: []models.OutboxEvent{event(defaultMaxAttempts)}}
		svc, err := NewService(ServiceParams{Logger: testLogger(), Repository: repo})
		require.NoError(t, err)

		published, err := svc.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, published)
		assert.Empty(t, repo.published)
		assert.Empty(t, repo.failed)
	})

	t.Run("dead events ahead of the queue do not block fresh ones", func(t *testing.T) {
		var events []models.OutboxEvent
		for i := 0; i < defaultBatchSize+10; i++ {
			events = append(events, event(defaultMaxAttempts))
		}
		fresh := event(0)
		events = append(events, fresh)
		repo := &fakeRepo{events: events}

		svc, err := NewService(ServiceParams{Logger: testLogger(), Repository: repo})
		require.NoError(t, err)

		published, err := svc.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, published)
		assert.Equal(t, []uuid.UUID{fresh.ID}, repo.published)
	})
}
