package services

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"go.uber.org/zap"
)

// EventService records business events both in the database (for the
// in-app activity feed) and in the structured log.
type EventService interface {
	Log(kind, message string, actorID *uint)
	Recent(limit int) ([]models.SystemEvent, error)
	RecentByKind(kind string, limit int) ([]models.SystemEvent, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	logger    *zap.Logger
}

func NewEventService(eventRepo repository.EventRepository, logger *zap.Logger) EventService {
	return &eventService{eventRepo: eventRepo, logger: logger}
}

// Log is best-effort: a failed audit write must not fail the business
// action that triggered it.
func (s *eventService) Log(kind, message string, actorID *uint) {
	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("message", message),
	}
	if actorID != nil {
		fields = append(fields, zap.Uint("actor_id", *actorID))
	}
	s.logger.Info("System event", fields...)

	event := &models.SystemEvent{
		Kind:    kind,
		Message: message,
		ActorID: actorID,
	}
	if err := s.eventRepo.Create(event); err != nil {
		s.logger.Warn("Failed to persist system event", zap.String("kind", kind), zap.Error(err))
	}
}

func (s *eventService) Recent(limit int) ([]models.SystemEvent, error) {
	return s.eventRepo.GetRecent(limit)
}

func (s *eventService) RecentByKind(kind string, limit int) ([]models.SystemEvent, error) {
	return s.eventRepo.GetByKind(kind, limit)
}
