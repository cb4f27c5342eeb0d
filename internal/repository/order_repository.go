package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//webhookの照合キー（プロバイダのセッションID）で検索
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (model.Order, error)

	//作成済み注文にプロバイダのセッション情報を紐付ける
	SetCheckoutSession(ctx context.Context, orderID int64, sessionID string, checkoutURL string) error

	//PENDINGのときだけステータスを更新する（条件付きUPDATE）。
	//falseは「すでに終端だった」の意味で、エラーではない。
	UpdateStatusIfPending(ctx context.Context, orderID int64, status model.OrderStatus) (bool, error)
}
