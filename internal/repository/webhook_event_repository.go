package repository

import "context"

// 処理済みwebhookイベントの記録（event_idで重複排除）
type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string, eventType string) error
}
