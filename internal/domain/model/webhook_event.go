package model

import "time"

// 処理済みwebhookイベントの記録。
// プロバイダは同じイベントを複数回届けることがあるので、event_idで重複排除する。
type WebhookEvent struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"event_id"`
	EventType   string    `gorm:"type:varchar(100);not null" json:"event_type"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}
