package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	"app/internal/notify"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// 署名検証の約束（本物はpayment.SignatureVerifier）
type SignatureVerifier interface {
	Verify(payload []byte, header string) error
}

// WebhookUsecase は決済プロバイダからの非同期通知を注文の終端状態に反映する。
// 同じイベントが何回届いても、遷移と通知は1回しか起きない。
type WebhookUsecase struct {
	tx       repo.TransactionManager
	users    repo.UserRepository
	verifier SignatureVerifier
	queue    notify.Queue
}

func NewWebhookUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	verifier SignatureVerifier,
	queue notify.Queue,
) *WebhookUsecase {
	return &WebhookUsecase{
		tx:       tx,
		users:    users,
		verifier: verifier,
		queue:    queue,
	}
}

// HandleEvent はwebhookを1件処理する。
// エラーを返すのは署名不正と解釈不能なボディだけ。
// それ以外（未知の種別・重複・対象なし・終端済み）は正常応答のno-op。
// プロバイダは非2xxを「後で再送」と解釈するため。
func (u *WebhookUsecase) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	if err := u.verifier.Verify(payload, signature); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	ev, err := payment.ParseWebhookEvent(payload)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	//許可リスト外はno-op
	var target model.OrderStatus
	switch ev.Type {
	case payment.EventCheckoutSessionCompleted:
		target = model.OrderStatusPaid
	case payment.EventCheckoutSessionExpired, payment.EventCheckoutSessionPaymentFailed:
		target = model.OrderStatusFailed
	default:
		return nil
	}

	sessionID := ev.Data.Object.ID
	if sessionID == "" {
		//照合キーが無いイベントは再送されても直らない。ログだけ残す
		log.Warnf("webhook %s (%s): missing session id", ev.ID, ev.Type)
		return nil
	}

	var transitioned bool
	var order model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じイベントIDは一度しか処理しない
		seen, err := r.WebhookEvents().Exists(ctx, ev.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if seen {
			return nil
		}

		order, err = r.Orders().FindByCheckoutSessionID(ctx, sessionID)
		if errors.Is(err, repo.ErrNotFound) {
			//データ不整合。再送で直るものではないので記録して正常応答
			log.Warnf("webhook %s (%s): no order for session %s", ev.ID, ev.Type, sessionID)
			return r.WebhookEvents().MarkProcessed(ctx, ev.ID, ev.Type)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//PENDINGのときだけ勝つ条件付きUPDATE。
		//falseなら誰かが先に遷移させた重複配送なので、何もしない
		transitioned, err = r.Orders().UpdateStatusIfPending(ctx, order.ID, target)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return r.WebhookEvents().MarkProcessed(ctx, ev.ID, ev.Type)
	})
	if err != nil {
		return err
	}

	//通知は支払完了の実遷移のときだけ、コミット後に1回。
	//キュー投入の失敗でwebhook応答は失敗させない
	if transitioned && target == model.OrderStatusPaid {
		u.enqueueConfirmation(ctx, order)
	}

	return nil
}

func (u *WebhookUsecase) enqueueConfirmation(ctx context.Context, order model.Order) {
	user, err := u.users.FindByID(ctx, order.UserID)
	if err != nil || user == nil {
		log.Warnf("order %d: confirmation skipped, user %d not found", order.ID, order.UserID)
		return
	}

	err = u.queue.EnqueueOrderConfirmation(ctx, notify.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       user.Email,
		TotalPrice:  order.TotalPrice,
		Currency:    order.Currency,
	})
	if err != nil {
		log.Errorf("order %d: enqueue confirmation: %v", order.ID, err)
	}
}
