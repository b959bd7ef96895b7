package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amolina-dev/biblioteca-backend/pkg/db/models"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = time.Second
	defaultMaxAttempts  = 10
)

type outboxRepository interface {
	FetchUnpublished(limit int, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

// publishFunc delivers one event to the downstream consumer. The default
// sink writes the event to the structured log, which is all the
// informational restock and overdue notifications require.
type publishFunc func(ctx context.Context, event models.OutboxEvent) error

type ServiceParams struct {
	Logger       *logger.Logger
	Repository   outboxRepository
	Publish      publishFunc
	BatchSize    int
	PollInterval time.Duration
	MaxAttempts  int
}

type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	publish      publishFunc
	batchSize    int
	pollInterval time.Duration
	maxAttempts  int
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}

	svc := &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		publish:      params.Publish,
		batchSize:    params.BatchSize,
		pollInterval: params.PollInterval,
		maxAttempts:  params.MaxAttempts,
	}
	if svc.publish == nil {
		svc.publish = svc.logEvent
	}
	if svc.batchSize <= 0 {
		svc.batchSize = defaultBatchSize
	}
	if svc.pollInterval <= 0 {
		svc.pollInterval = defaultPollInterval
	}
	if svc.maxAttempts <= 0 {
		svc.maxAttempts = defaultMaxAttempts
	}
	return svc, nil
}

// Run polls the outbox until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.DrainOnce(ctx); err != nil {
				s.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending events and reports how many
// were delivered. Events that exhausted their attempts stay out of the
// batch entirely.
func (s *Service) DrainOnce(ctx context.Context) (int, error) {
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := s.publish(ctx, event); err != nil {
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				s.logg.Error(ctx, "failed to record publish failure", markErr)
			}
			continue
		}
		if err := s.repo.MarkPublished(event.ID); err != nil {
			s.logg.Error(ctx, "failed to mark event published", err)
			continue
		}
		published++
	}
	return published, nil
}

func (s *Service) logEvent(ctx context.Context, event models.OutboxEvent) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_id":       event.ID.String(),
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   event.AggregateID.String(),
		"payload":        string(event.Payload),
	})
	s.logg.Info(ctx, "outbox event published")
	return nil
}
