package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/queue"
	catalogRepo "github.com/Astemirdum/catalog-service/catalog/internal/repository"
	"github.com/Astemirdum/catalog-service/pkg/auth"
	"github.com/Astemirdum/catalog-service/pkg/kafka"
)

// DefaultTitleFilter is the word the index page counts book titles by.
const DefaultTitleFilter = "a"

type Service struct {
	log      *zap.Logger
	repo     catalogRepo.Repository
	enqueuer queue.Enqueuer
	now      func() time.Time
}

type Option func(s *Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo catalogRepo.Repository, enqueuer queue.Enqueuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		enqueuer: enqueuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar date.
func (s *Service) Today() time.Time {
	return model.DateOf(s.now())
}

// publish reports a change; failures are logged and never fail the request.
func (s *Service) publish(ctx context.Context, eventType kafka.EventType, entity, id string) {
	event := kafka.EventCatalog{
		Timestamp: s.now().UTC(),
		UserName:  auth.UserName(ctx),
		EventType: eventType,
		Entity:    entity,
		EntityID:  id,
	}
	if userID, ok := auth.UserID(ctx); ok {
		event.UserID = userID
	}
	if err := s.enqueuer.Enqueue(kafka.CatalogTopic, event); err != nil {
		s.log.Warn("enqueue catalog event", zap.Any("event", event), zap.Error(err))
	}
}
