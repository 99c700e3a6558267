package repository

import (
	"context"

	"gorm.io/gorm"

	"gymstudio/internal/domain"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) ListActive(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("starts_at").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
