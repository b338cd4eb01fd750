package repository

import (
	"context"

	"hilanderia-pos/internal/model"

	"gorm.io/gorm"
)

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return translate(r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepo) FindRecent(ctx context.Context, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Order("occurred_at DESC").Limit(limit).Find(&events).Error
	return events, translate(err)
}
