package repository

import (
	"context"
	"time"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

// event_idが処理済みかどうか
func (r *WebhookEventGormRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// 処理済みとして記録（event_idはユニーク制約）
func (r *WebhookEventGormRepository) MarkProcessed(ctx context.Context, eventID string, eventType string) error {
	return r.db.WithContext(ctx).Create(&model.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}).Error
}
