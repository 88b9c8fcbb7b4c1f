package repository

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *models.SystemEvent) error
	GetRecent(limit int) ([]models.SystemEvent, error)
	GetByKind(kind string, limit int) ([]models.SystemEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.SystemEvent) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetRecent(limit int) ([]models.SystemEvent, error) {
	var events []models.SystemEvent
	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *eventRepository) GetByKind(kind string, limit int) ([]models.SystemEvent, error) {
	var events []models.SystemEvent
	err := r.db.Where("kind = ?", kind).Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}
