package notify

import (
	"context"

	"github.com/labstack/gommon/log"
)

// 注文確認通知のメッセージ。
// 配送はat-least-onceなので、受け側はorder_id単位で冪等に処理する。
type OrderConfirmation struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
	TotalPrice  int64  `json:"total_price"`
	Currency    string `json:"currency"`
}

// webhook応答を遅い処理でブロックしないための非同期キュー
type Queue interface {
	EnqueueOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}

// キュー未設定の環境（ローカル開発）向け。ログに流すだけ
type LogQueue struct{}

func NewLogQueue() *LogQueue {
	return &LogQueue{}
}

func (q *LogQueue) EnqueueOrderConfirmation(_ context.Context, msg OrderConfirmation) error {
	log.Infof("order confirmation (no queue configured): order=%d number=%s email=%s", msg.OrderID, msg.OrderNumber, msg.Email)
	return nil
}
